package game

import "strings"

// ActionKind distinguishes the two moves a player can make in a round.
type ActionKind string

const (
	ActionQuestion ActionKind = "question"
	ActionGuess    ActionKind = "guess"
)

// Markers players are instructed to open their replies with. Detection
// is by containment, not prefix.
const (
	MarkerQuestion   = "[提问]"
	MarkerGuess      = "[推理]"
	MarkerFinalGuess = "[最终推理]"
)

// Action is a decoded player move. Text keeps the raw utterance,
// marker included; the host and the game record both see the original
// wording.
type Action struct {
	Kind ActionKind
	Text string
}

// IsGuess reports whether the move is a guess at the full story.
func (a Action) IsGuess() bool { return a.Kind == ActionGuess }

// DecodeAction classifies a raw player reply. Any reply carrying a
// guess marker is a guess; everything else, marked or not, counts as a
// question.
func DecodeAction(raw string) Action {
	// "[最终推理]" does not contain "[推理]", so both markers are checked.
	if strings.Contains(raw, MarkerGuess) || strings.Contains(raw, MarkerFinalGuess) {
		return Action{Kind: ActionGuess, Text: raw}
	}
	return Action{Kind: ActionQuestion, Text: raw}
}
