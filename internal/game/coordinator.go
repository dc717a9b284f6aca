// Package game implements the turtle-soup deduction game: an Oracle
// that answers ternary questions about a hidden story, a bench of
// Reasoners that take turns questioning or guessing, and a Coordinator
// that drives rounds until someone wins or the budget runs out.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kimmyTSUI/agent-story/internal/logging"
	"github.com/kimmyTSUI/agent-story/internal/record"
	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

// Status describes where a game stands.
type Status string

const (
	// StatusActive means the game is still taking rounds.
	StatusActive Status = "active"
	// StatusWinnerFound means a guess was judged correct; the winning
	// round is the last one.
	StatusWinnerFound Status = "winner_found"
	// StatusRoundsExhausted means the round budget ran out with no
	// correct guess.
	StatusRoundsExhausted Status = "rounds_exhausted"
)

// ErrGameEnded is returned by PlayRound once the game has finished.
var ErrGameEnded = errors.New("game: already ended")

// Config assembles everything a Coordinator needs.
type Config struct {
	Puzzle    Puzzle
	Players   []record.PlayerSpec
	MaxRounds int
	Generator textgen.Generator

	// Logger may be nil; logging is then discarded.
	Logger *logging.Logger

	Callbacks Callbacks
}

// Callbacks observe a game as it runs. Any or all may be nil. They are
// invoked synchronously from the game loop.
type Callbacks struct {
	OnGameStart   func(*record.Game)
	OnRoundStart  func(round int, player string)
	OnRoundPlayed func(record.Round)
	OnFinalGuess  func(player, guess string)
	OnGameEnd     func(*record.Game)
}

// Coordinator runs one game from start to finish. It is not safe for
// concurrent use.
type Coordinator struct {
	oracle    *Oracle
	reasoners []*Reasoner
	maxRounds int
	log       *logging.Logger
	callbacks Callbacks

	rec          *record.Game
	status       Status
	turn         int
	winningGuess string
	finished     bool
}

// NewCoordinator validates the configuration and prepares a game in
// the active state. A bad puzzle or player list fails here, not
// mid-game.
func NewCoordinator(cfg Config) (*Coordinator, error) {
	if strings.TrimSpace(cfg.Puzzle.Surface) == "" {
		return nil, errors.New("game: puzzle surface is empty")
	}
	if strings.TrimSpace(cfg.Puzzle.Bottom) == "" {
		return nil, errors.New("game: puzzle bottom is empty")
	}
	if cfg.MaxRounds <= 0 {
		return nil, fmt.Errorf("game: max rounds must be positive (got %d)", cfg.MaxRounds)
	}
	if cfg.Generator == nil {
		return nil, errors.New("game: generator is required")
	}
	if len(cfg.Players) == 0 {
		return nil, errors.New("game: at least one player is required")
	}
	seen := make(map[string]struct{}, len(cfg.Players))
	for _, p := range cfg.Players {
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.New("game: player name cannot be empty")
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("game: duplicate player name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	now := time.Now()
	rec := &record.Game{
		ID:           record.NewID(cfg.Puzzle.Index, now),
		PuzzleIndex:  cfg.Puzzle.Index,
		Surface:      cfg.Puzzle.Surface,
		Bottom:       cfg.Puzzle.Bottom,
		KeyQuestions: cfg.Puzzle.KeyQuestions,
		Players:      cfg.Players,
		MaxRounds:    cfg.MaxRounds,
		StartTime:    now,
		Rounds:       []record.Round{},
		FinalGuesses: map[string]string{},
	}

	reasoners := make([]*Reasoner, len(cfg.Players))
	for i, p := range cfg.Players {
		reasoners[i] = NewReasoner(p.Name, p.Strategy, cfg.Puzzle.Surface, cfg.Generator)
	}

	return &Coordinator{
		oracle:    NewOracle(cfg.Puzzle, cfg.Generator),
		reasoners: reasoners,
		maxRounds: cfg.MaxRounds,
		log:       logging.OrNop(cfg.Logger).WithGame(rec.ID),
		callbacks: cfg.Callbacks,
		rec:       rec,
		status:    StatusActive,
	}, nil
}

// Status reports the current game state.
func (c *Coordinator) Status() Status { return c.status }

// Record exposes the game record, including while the game is still
// running. Callers must treat it as read-only.
func (c *Coordinator) Record() *record.Game { return c.rec }

// CurrentPlayer returns the name of the player whose move is next.
func (c *Coordinator) CurrentPlayer() string { return c.reasoners[c.turn].Name() }

// PlayRound runs a single turn for the player whose move it is and
// returns the recorded round. A question gets a ternary answer; a
// guess gets judged, and a correct guess ends the game on the spot.
// The turn index advances after every recorded round, the winning one
// included. Calling PlayRound after the game has ended returns
// ErrGameEnded.
func (c *Coordinator) PlayRound(ctx context.Context) (record.Round, error) {
	if c.status != StatusActive {
		return record.Round{}, ErrGameEnded
	}

	player := c.reasoners[c.turn]
	index := len(c.rec.Rounds) + 1
	c.notifyRoundStart(index, player.Name())

	log := c.log.WithPlayer(player.Name()).WithRound(index)
	log.Debug("requesting move")

	reply, err := player.NextMove(ctx, c.rec.Rounds)
	if err != nil {
		return record.Round{}, err
	}

	round := record.Round{
		Index:    index,
		Player:   player.Name(),
		Question: reply,
	}

	if action := DecodeAction(reply); action.IsGuess() {
		verdict, err := c.oracle.EvaluateGuess(ctx, action.Text)
		if err != nil {
			return record.Round{}, err
		}
		round.IsGuess = true
		round.GuessCorrect = verdict == AnswerYes
		round.Answer = string(verdict)
		log.Info("guess judged", "correct", round.GuessCorrect)
	} else {
		answer, err := c.oracle.AnswerQuestion(ctx, action.Text)
		if err != nil {
			return record.Round{}, err
		}
		round.Answer = string(answer)
		log.Info("question answered", "answer", round.Answer)
	}

	c.rec.Rounds = append(c.rec.Rounds, round)
	c.notifyRoundPlayed(round)
	c.turn = (c.turn + 1) % len(c.reasoners)

	if round.IsGuess && round.GuessCorrect {
		c.status = StatusWinnerFound
		c.rec.Winner = round.Player
		c.winningGuess = round.Question
		return round, nil
	}

	if len(c.rec.Rounds) >= c.maxRounds {
		c.status = StatusRoundsExhausted
	}
	return round, nil
}

// Run plays the game to completion and returns the finished record.
// When the rounds run out every player closes with a final guess, in
// configured order, and none of them is judged; the winning guess of
// an ended game is instead recorded directly. Generation errors abort
// the run. Calling Run again returns the same record without
// replaying.
func (c *Coordinator) Run(ctx context.Context) (*record.Game, error) {
	if c.finished {
		return c.rec, nil
	}

	c.log.Info("game starting",
		"puzzle_index", c.rec.PuzzleIndex,
		"players", len(c.reasoners),
		"max_rounds", c.maxRounds)
	c.notifyGameStart(c.rec)

	for c.status == StatusActive {
		if _, err := c.PlayRound(ctx); err != nil {
			return nil, err
		}
	}

	switch c.status {
	case StatusWinnerFound:
		guess := c.winningGuess
		if guess == "" {
			guess = "已在对局中猜中真相。"
		}
		c.rec.FinalGuesses[c.rec.Winner] = guess
		c.log.Info("winner found", "winner", c.rec.Winner, "rounds", len(c.rec.Rounds))
	case StatusRoundsExhausted:
		c.log.Info("rounds exhausted", "rounds", len(c.rec.Rounds))
		if err := c.collectFinalGuesses(ctx); err != nil {
			return nil, err
		}
	}

	c.rec.EndTime = time.Now()
	c.rec.TotalRounds = len(c.rec.Rounds)
	c.finished = true
	c.notifyGameEnd(c.rec)
	return c.rec, nil
}

func (c *Coordinator) collectFinalGuesses(ctx context.Context) error {
	for _, r := range c.reasoners {
		guess, err := r.FinalGuess(ctx, c.rec.Rounds)
		if err != nil {
			return err
		}
		c.rec.FinalGuesses[r.Name()] = guess
		c.log.WithPlayer(r.Name()).Info("final guess collected")
		c.notifyFinalGuess(r.Name(), guess)
	}
	return nil
}

func (c *Coordinator) notifyGameStart(g *record.Game) {
	if c.callbacks.OnGameStart != nil {
		c.callbacks.OnGameStart(g)
	}
}

func (c *Coordinator) notifyRoundStart(round int, player string) {
	if c.callbacks.OnRoundStart != nil {
		c.callbacks.OnRoundStart(round, player)
	}
}

func (c *Coordinator) notifyRoundPlayed(r record.Round) {
	if c.callbacks.OnRoundPlayed != nil {
		c.callbacks.OnRoundPlayed(r)
	}
}

func (c *Coordinator) notifyFinalGuess(player, guess string) {
	if c.callbacks.OnFinalGuess != nil {
		c.callbacks.OnFinalGuess(player, guess)
	}
}

func (c *Coordinator) notifyGameEnd(g *record.Game) {
	if c.callbacks.OnGameEnd != nil {
		c.callbacks.OnGameEnd(g)
	}
}
