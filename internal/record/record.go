// Package record defines the persistent record of a finished (or running)
// game and its storage backends. The JSON field names are fixed: they form
// the on-disk format shared with the evaluation and reporting tooling, so
// renaming a tag is a breaking change.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlayerSpec identifies one participant and the questioning strategy
// configured for them.
type PlayerSpec struct {
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
}

// Round captures a single turn: who spoke, what they said, and how the
// host answered. Question holds the player's raw utterance, marker
// included, whether it was a question or a guess.
type Round struct {
	Index        int    `json:"round"`
	Player       string `json:"player"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	IsGuess      bool   `json:"is_guess"`
	GuessCorrect bool   `json:"guess_correct"`
}

// Game is the full record of one game. ID is assigned by the store on
// first save and doubles as the record's filename and archive key; it is
// deliberately not part of the JSON body.
type Game struct {
	ID           string            `json:"-"`
	PuzzleIndex  int               `json:"puzzle_index"`
	Surface      string            `json:"surface"`
	Bottom       string            `json:"bottom"`
	KeyQuestions []string          `json:"key_questions"`
	Players      []PlayerSpec      `json:"players"`
	MaxRounds    int               `json:"max_rounds"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	Rounds       []Round           `json:"rounds"`
	FinalGuesses map[string]string `json:"final_guesses"`
	Evaluation   *Evaluation       `json:"evaluation"`
	Winner       string            `json:"winner"`
	TotalRounds  int               `json:"total_rounds"`
}

// Evaluation bundles the three post-game evaluation results.
type Evaluation struct {
	Coverage   CoverageEvaluation          `json:"coverage_evaluation"`
	Players    map[string]PlayerEvaluation `json:"player_evaluations"`
	Efficiency EfficiencyEvaluation        `json:"efficiency_evaluation"`
}

// CoverageEvaluation reports which key questions the players' questioning
// touched on, keyed by the key question text.
type CoverageEvaluation struct {
	Details           map[string]CoverageDetail `json:"coverage_details"`
	CoveredCount      int                       `json:"covered_count"`
	TotalKeyQuestions int                       `json:"total_key_questions"`
	CoverageRate      float64                   `json:"coverage_rate"`
}

// CoverageDetail is the verdict for one key question, with the judge's
// raw response kept for inspection.
type CoverageDetail struct {
	Covered  bool   `json:"covered"`
	Response string `json:"response"`
}

// PlayerEvaluation scores one player's final guess against the truth.
type PlayerEvaluation struct {
	PlayerName         string `json:"player_name"`
	FinalGuess         string `json:"final_guess"`
	EvaluationResponse string `json:"evaluation_response"`
	Scores             Scores `json:"scores"`
}

// Scores holds the rubric sub-scores (each out of 10) and the overall
// score out of 100, as extracted from the judge's response.
type Scores struct {
	CorePlot         int `json:"core_plot"`
	KeyDetails       int `json:"key_details"`
	LogicalReasoning int `json:"logical_reasoning"`
	Completeness     int `json:"completeness"`
	Total            int `json:"total"`
}

// EfficiencyEvaluation summarizes round usage and per-player activity.
type EfficiencyEvaluation struct {
	TotalRounds    int                    `json:"total_rounds"`
	MaxRounds      int                    `json:"max_rounds"`
	EfficiencyRate float64                `json:"efficiency_rate"`
	PlayerStats    map[string]PlayerStats `json:"player_stats"`
}

// PlayerStats counts how often one player asked versus guessed.
type PlayerStats struct {
	Questions int `json:"questions"`
	Guesses   int `json:"guesses"`
}

// Questions returns the text of every non-guess round in play order.
// Guess rounds are excluded; coverage evaluation judges questioning only.
func (g *Game) Questions() []string {
	var questions []string
	for _, r := range g.Rounds {
		if !r.IsGuess {
			questions = append(questions, r.Question)
		}
	}
	return questions
}

// PlayerNames returns the configured player names in turn order.
func (g *Game) PlayerNames() []string {
	names := make([]string, len(g.Players))
	for i, p := range g.Players {
		names[i] = p.Name
	}
	return names
}

// HasWinner reports whether some player guessed the truth during play.
func (g *Game) HasWinner() bool {
	return g.Winner != ""
}

// Duration returns the wall-clock length of the game, or zero while the
// game is still running.
func (g *Game) Duration() time.Duration {
	if g.EndTime.IsZero() {
		return 0
	}
	return g.EndTime.Sub(g.StartTime)
}

// NewID returns a fresh record identifier. IDs embed the puzzle index and
// a second-resolution timestamp so that a directory listing sorts
// chronologically, plus a short random suffix to keep records from the
// same second distinct.
func NewID(puzzleIndex int, now time.Time) string {
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("game_%d_%s_%s", puzzleIndex, now.Format("20060102_150405"), short)
}

// encodeGame marshals a record as indented JSON. HTML escaping is turned
// off so the Chinese puzzle text stays readable in the files.
func encodeGame(g *Game) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return nil, fmt.Errorf("failed to encode game record: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeGame(data []byte) (*Game, error) {
	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return &g, nil
}
