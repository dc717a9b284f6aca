package game

import (
	"context"
	"fmt"

	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

// Oracle fronts the host side of a game. It holds the full story and
// reduces every player utterance to a canonical ternary answer.
type Oracle struct {
	system string
	gen    textgen.Generator
}

// NewOracle builds the host for one puzzle. The system prompt is
// rendered once and reused for every call.
func NewOracle(p Puzzle, gen textgen.Generator) *Oracle {
	return &Oracle{system: OracleSystemPrompt(p), gen: gen}
}

// AnswerQuestion has the model answer one player question and
// normalizes the reply. Generation failures are returned as errors;
// a malformed reply is not a failure, it normalizes to
// AnswerIrrelevant.
func (o *Oracle) AnswerQuestion(ctx context.Context, question string) (Answer, error) {
	raw, err := o.gen.Generate(ctx, o.system, OracleAnswerPrompt(question))
	if err != nil {
		return "", fmt.Errorf("failed to answer question: %w", err)
	}
	return Normalize(raw), nil
}

// EvaluateGuess has the model judge a player's story guess and
// collapses the verdict to a strict yes or no. An irrelevant or
// unrecognized reply counts as a rejection.
func (o *Oracle) EvaluateGuess(ctx context.Context, guess string) (Answer, error) {
	raw, err := o.gen.Generate(ctx, o.system, OracleJudgePrompt(guess))
	if err != nil {
		return "", fmt.Errorf("failed to judge guess: %w", err)
	}
	if Normalize(raw) == AnswerYes {
		return AnswerYes, nil
	}
	return AnswerNo, nil
}
