package game

import (
	"context"
	"fmt"

	"github.com/kimmyTSUI/agent-story/internal/record"
	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

// Reasoner is one player: a name, a questioning strategy, and the
// generator that produces its moves.
type Reasoner struct {
	name     string
	strategy string
	system   string
	gen      textgen.Generator
}

// NewReasoner builds a player for one puzzle. The configured strategy
// string is kept verbatim; unknown strategies prompt with the
// systematic guide.
func NewReasoner(name, strategy, surface string, gen textgen.Generator) *Reasoner {
	return &Reasoner{
		name:     name,
		strategy: strategy,
		system:   ReasonerSystemPrompt(name, strategy, surface),
		gen:      gen,
	}
}

// Name returns the player's display name.
func (r *Reasoner) Name() string { return r.name }

// Strategy returns the strategy name as configured.
func (r *Reasoner) Strategy() string { return r.strategy }

// NextMove produces the player's next utterance given the transcript
// so far. The reply is returned raw; the caller decodes it.
func (r *Reasoner) NextMove(ctx context.Context, rounds []record.Round) (string, error) {
	reply, err := r.gen.Generate(ctx, r.system, ReasonerTurnPrompt(r.name, rounds))
	if err != nil {
		return "", fmt.Errorf("failed to generate move for %s: %w", r.name, err)
	}
	return reply, nil
}

// FinalGuess produces the player's closing account of the full story.
func (r *Reasoner) FinalGuess(ctx context.Context, rounds []record.Round) (string, error) {
	reply, err := r.gen.Generate(ctx, r.system, ReasonerFinalPrompt(rounds))
	if err != nil {
		return "", fmt.Errorf("failed to generate final guess for %s: %w", r.name, err)
	}
	return reply, nil
}
