package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kimmyTSUI/agent-story/internal/record"
	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

func twoPlayers() []record.PlayerSpec {
	return []record.PlayerSpec{
		{Name: "Player1", Strategy: StrategySystematic},
		{Name: "Player2", Strategy: StrategyCreative},
	}
}

func newTestCoordinator(t *testing.T, cfg Config) *Coordinator {
	t.Helper()
	if cfg.Puzzle.Surface == "" && cfg.Puzzle.Bottom == "" {
		cfg.Puzzle = testPuzzle()
	}
	if cfg.Players == nil {
		cfg.Players = twoPlayers()
	}
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = 10
	}
	c, err := NewCoordinator(cfg)
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}
	return c
}

func TestNewCoordinatorValidation(t *testing.T) {
	gen := textgen.NewScripted("是。")
	valid := Config{Puzzle: testPuzzle(), Players: twoPlayers(), MaxRounds: 5, Generator: gen}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty surface", func(c *Config) { c.Puzzle.Surface = " " }, "surface"},
		{"empty bottom", func(c *Config) { c.Puzzle.Bottom = "" }, "bottom"},
		{"zero max rounds", func(c *Config) { c.MaxRounds = 0 }, "max rounds"},
		{"negative max rounds", func(c *Config) { c.MaxRounds = -3 }, "max rounds"},
		{"nil generator", func(c *Config) { c.Generator = nil }, "generator"},
		{"no players", func(c *Config) { c.Players = nil }, "player"},
		{"blank player name", func(c *Config) {
			c.Players = []record.PlayerSpec{{Name: "  "}}
		}, "name cannot be empty"},
		{"duplicate player name", func(c *Config) {
			c.Players = []record.PlayerSpec{{Name: "Player1"}, {Name: "Player1"}}
		}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if _, err := NewCoordinator(cfg); err == nil {
				t.Fatal("NewCoordinator() did not error")
			} else if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("NewCoordinator() error = %q, want mention of %q", err, tt.want)
			}
		})
	}

	c, err := NewCoordinator(valid)
	if err != nil {
		t.Fatalf("NewCoordinator() with a valid config error = %v", err)
	}
	if c.Status() != StatusActive {
		t.Errorf("Status() = %q, want %q", c.Status(), StatusActive)
	}
	if c.CurrentPlayer() != "Player1" {
		t.Errorf("CurrentPlayer() = %q, want Player1", c.CurrentPlayer())
	}
	if !strings.HasPrefix(c.Record().ID, "game_0_") {
		t.Errorf("Record().ID = %q, want a game_0_ prefix", c.Record().ID)
	}
	// Missing key questions are allowed; not every puzzle ships them.
	cfg := valid
	cfg.Puzzle.KeyQuestions = nil
	if _, err := NewCoordinator(cfg); err != nil {
		t.Errorf("NewCoordinator() without key questions error = %v", err)
	}
}

func TestCoordinatorWinningGuessEndsGame(t *testing.T) {
	gen := textgen.NewScripted(
		"[提问] 他死了吗？",
		"否。",
		"[提问] 有人帮过他吗？",
		"是。",
		"[推理] 他假死逃到了岛上。",
		"是。",
	)
	c := newTestCoordinator(t, Config{Generator: gen})

	rec, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if c.Status() != StatusWinnerFound {
		t.Errorf("Status() = %q, want %q", c.Status(), StatusWinnerFound)
	}
	if rec.Winner != "Player1" {
		t.Errorf("Winner = %q, want Player1", rec.Winner)
	}
	if rec.TotalRounds != 3 {
		t.Errorf("TotalRounds = %d, want 3", rec.TotalRounds)
	}

	last := rec.Rounds[len(rec.Rounds)-1]
	if !last.IsGuess || !last.GuessCorrect {
		t.Errorf("winning round = %+v, want a correct guess", last)
	}
	if last.Answer != "是" {
		t.Errorf("winning round Answer = %q, want 是", last.Answer)
	}
	// The turn index moves past the winner like after any other round.
	if got := c.CurrentPlayer(); got != "Player2" {
		t.Errorf("CurrentPlayer() after win = %q, want Player2", got)
	}

	// The winner's in-game utterance is the final guess; nobody else
	// gives one and no fresh generation happens.
	if len(rec.FinalGuesses) != 1 {
		t.Fatalf("FinalGuesses has %d entries, want 1: %v", len(rec.FinalGuesses), rec.FinalGuesses)
	}
	if got := rec.FinalGuesses["Player1"]; got != "[推理] 他假死逃到了岛上。" {
		t.Errorf("FinalGuesses[Player1] = %q", got)
	}
	if gen.Calls() != 6 {
		t.Errorf("generator calls = %d, want 6", gen.Calls())
	}
	if rec.EndTime.IsZero() {
		t.Error("EndTime was not set")
	}
}

func TestCoordinatorRotation(t *testing.T) {
	players := []record.PlayerSpec{
		{Name: "甲", Strategy: StrategySystematic},
		{Name: "乙", Strategy: StrategyCreative},
		{Name: "丙", Strategy: StrategySystematic},
	}
	// Player and host calls alternate strictly, so a two-entry cycle
	// serves questions and answers in turn.
	gen := textgen.NewScripted("[提问] 有关系吗？", "不相关。")
	c := newTestCoordinator(t, Config{Players: players, MaxRounds: 5, Generator: gen})

	want := []string{"甲", "乙", "丙", "甲", "乙"}
	for i, name := range want {
		if got := c.CurrentPlayer(); got != name {
			t.Fatalf("CurrentPlayer() before round %d = %q, want %q", i+1, got, name)
		}
		round, err := c.PlayRound(context.Background())
		if err != nil {
			t.Fatalf("PlayRound() #%d error = %v", i+1, err)
		}
		if round.Player != name {
			t.Errorf("round %d Player = %q, want %q", i+1, round.Player, name)
		}
		if round.Index != i+1 {
			t.Errorf("round %d Index = %d", i+1, round.Index)
		}
	}
	if c.Status() != StatusRoundsExhausted {
		t.Errorf("Status() after %d rounds = %q, want %q", len(want), c.Status(), StatusRoundsExhausted)
	}
}

func TestCoordinatorRejectedGuessKeepsRotation(t *testing.T) {
	gen := textgen.NewScripted(
		"[推理] 完全错误的猜测。",
		"否。",
		"[提问] 他死了吗？",
		"不相关。",
	)
	c := newTestCoordinator(t, Config{MaxRounds: 4, Generator: gen})

	round, err := c.PlayRound(context.Background())
	if err != nil {
		t.Fatalf("PlayRound() error = %v", err)
	}
	if !round.IsGuess || round.GuessCorrect {
		t.Errorf("round = %+v, want a rejected guess", round)
	}
	if round.Answer != "否" {
		t.Errorf("Answer = %q, want 否", round.Answer)
	}
	if c.Status() != StatusActive {
		t.Errorf("Status() = %q, want the game to continue", c.Status())
	}
	if c.CurrentPlayer() != "Player2" {
		t.Errorf("CurrentPlayer() = %q, want rotation to Player2", c.CurrentPlayer())
	}
	if c.Record().Winner != "" {
		t.Errorf("Winner = %q, want empty", c.Record().Winner)
	}

	if _, err := c.PlayRound(context.Background()); err != nil {
		t.Fatalf("PlayRound() error = %v", err)
	}
	if c.CurrentPlayer() != "Player1" {
		t.Errorf("CurrentPlayer() = %q, want rotation back to Player1", c.CurrentPlayer())
	}
}

func TestCoordinatorRoundsExhausted(t *testing.T) {
	gen := textgen.NewScripted(
		"[提问] 第一个问题？",
		"是。",
		"[提问] 第二个问题？",
		"否。",
		"[最终推理] 完整推理一。",
		"[最终推理] 完整推理二。",
	)
	c := newTestCoordinator(t, Config{MaxRounds: 2, Generator: gen})

	rec, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if c.Status() != StatusRoundsExhausted {
		t.Errorf("Status() = %q, want %q", c.Status(), StatusRoundsExhausted)
	}
	if rec.Winner != "" {
		t.Errorf("Winner = %q, want empty", rec.Winner)
	}
	if rec.TotalRounds != 2 {
		t.Errorf("TotalRounds = %d, want 2", rec.TotalRounds)
	}
	if got := rec.FinalGuesses["Player1"]; got != "[最终推理] 完整推理一。" {
		t.Errorf("FinalGuesses[Player1] = %q", got)
	}
	if got := rec.FinalGuesses["Player2"]; got != "[最终推理] 完整推理二。" {
		t.Errorf("FinalGuesses[Player2] = %q", got)
	}
	// Two moves, two answers, two final guesses. Were the final
	// guesses judged, two more host calls would show up here.
	if gen.Calls() != 6 {
		t.Errorf("generator calls = %d, want 6", gen.Calls())
	}
}

func TestCoordinatorCallbacks(t *testing.T) {
	gen := textgen.NewScripted(
		"[提问] 第一个问题？",
		"是。",
		"[提问] 第二个问题？",
		"否。",
		"[最终推理] 推理一。",
		"[最终推理] 推理二。",
	)

	var events []string
	endTotal := -1
	callbacks := Callbacks{
		OnGameStart: func(g *record.Game) {
			events = append(events, "start "+g.ID[:5])
		},
		OnRoundStart: func(round int, player string) {
			events = append(events, fmt.Sprintf("round_start %d %s", round, player))
		},
		OnRoundPlayed: func(r record.Round) {
			events = append(events, fmt.Sprintf("round_played %d %s", r.Index, r.Answer))
		},
		OnFinalGuess: func(player, _ string) {
			events = append(events, "final "+player)
		},
		OnGameEnd: func(g *record.Game) {
			events = append(events, "end")
			endTotal = g.TotalRounds
		},
	}
	c := newTestCoordinator(t, Config{MaxRounds: 2, Generator: gen, Callbacks: callbacks})

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"start game_",
		"round_start 1 Player1",
		"round_played 1 是",
		"round_start 2 Player2",
		"round_played 2 否",
		"final Player1",
		"final Player2",
		"end",
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(events), events, len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, events[i], want[i])
		}
	}
	if endTotal != 2 {
		t.Errorf("OnGameEnd saw TotalRounds = %d, want 2", endTotal)
	}
}

func TestCoordinatorGeneratorErrorAborts(t *testing.T) {
	genErr := errors.New("api unreachable")
	calls := 0
	gen := textgen.GeneratorFunc(func(context.Context, string, string) (string, error) {
		calls++
		if calls == 2 {
			return "", genErr // the host call of the first round
		}
		return "[提问] 他死了吗？", nil
	})
	c := newTestCoordinator(t, Config{Generator: gen})

	if _, err := c.Run(context.Background()); !errors.Is(err, genErr) {
		t.Fatalf("Run() error = %v, want wrapped %v", err, genErr)
	}

	// The half-played round is not recorded and the game can resume
	// with the same player.
	if got := len(c.Record().Rounds); got != 0 {
		t.Errorf("Rounds has %d entries after the failure, want 0", got)
	}
	if c.Status() != StatusActive {
		t.Errorf("Status() = %q, want %q", c.Status(), StatusActive)
	}
	if c.CurrentPlayer() != "Player1" {
		t.Errorf("CurrentPlayer() = %q, want Player1 to retry", c.CurrentPlayer())
	}
}

func TestCoordinatorPlayRoundAfterEnd(t *testing.T) {
	gen := textgen.NewScripted("[提问] 他死了吗？", "是。")
	c := newTestCoordinator(t, Config{
		Players:   []record.PlayerSpec{{Name: "独行侠"}},
		MaxRounds: 1,
		Generator: gen,
	})

	if _, err := c.PlayRound(context.Background()); err != nil {
		t.Fatalf("PlayRound() error = %v", err)
	}
	if c.Status() != StatusRoundsExhausted {
		t.Fatalf("Status() = %q, want %q", c.Status(), StatusRoundsExhausted)
	}

	if _, err := c.PlayRound(context.Background()); !errors.Is(err, ErrGameEnded) {
		t.Errorf("PlayRound() after the end error = %v, want ErrGameEnded", err)
	}
}

func TestCoordinatorRunTwiceReturnsSameRecord(t *testing.T) {
	gen := textgen.NewScripted("[推理] 他假死逃到了岛上。", "是。")
	c := newTestCoordinator(t, Config{Generator: gen})

	first, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	calls := gen.Calls()

	second, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second != first {
		t.Error("second Run() returned a different record")
	}
	if gen.Calls() != calls {
		t.Errorf("second Run() made %d extra generator calls", gen.Calls()-calls)
	}
}

// A whole game against the smart mock: eight scripted questions, then
// the systematic player runs out of questions, guesses, and the
// keyword-matched judgement declares the win.
func TestCoordinatorSmartMockFullGame(t *testing.T) {
	players := []record.PlayerSpec{
		{Name: "系统派", Strategy: StrategySystematic},
		{Name: "创意派", Strategy: StrategyCreative},
	}
	c := newTestCoordinator(t, Config{
		Puzzle:    DefaultPuzzles()[0],
		Players:   players,
		MaxRounds: 12,
		Generator: textgen.NewSmartMock(),
	})

	rec, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rec.Winner != "系统派" {
		t.Errorf("Winner = %q, want 系统派", rec.Winner)
	}
	if rec.TotalRounds != 9 {
		t.Errorf("TotalRounds = %d, want 9", rec.TotalRounds)
	}
	if c.Status() != StatusWinnerFound {
		t.Errorf("Status() = %q, want %q", c.Status(), StatusWinnerFound)
	}

	if got := rec.Rounds[0].Answer; got != "否" {
		t.Errorf("round 1 Answer = %q, want 否", got)
	}
	if got := rec.Rounds[1].Answer; got != "不相关" {
		t.Errorf("round 2 Answer = %q, want 不相关", got)
	}
	if got := rec.Rounds[2].Answer; got != "是" {
		t.Errorf("round 3 Answer = %q, want 是", got)
	}

	last := rec.Rounds[8]
	if last.Player != "系统派" || !last.IsGuess || !last.GuessCorrect {
		t.Errorf("round 9 = %+v, want the winning guess by 系统派", last)
	}
	if len(rec.FinalGuesses) != 1 {
		t.Fatalf("FinalGuesses = %v, want only the winner's", rec.FinalGuesses)
	}
	if got := rec.FinalGuesses["系统派"]; !strings.Contains(got, "躲到了一个偏远的岛屿") {
		t.Errorf("FinalGuesses[系统派] = %q", got)
	}
}
