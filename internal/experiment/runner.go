// Package experiment plays declarative game sweeps. A sweep file names
// a set of experiments; each experiment pins a provider, a player
// lineup, a round budget, and the puzzle indexes to play. The runner
// plays every (experiment, puzzle, repeat) cell sequentially with a
// fresh coordinator, evaluates and saves each finished game, and
// aggregates a per-experiment summary.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kimmyTSUI/agent-story/internal/eval"
	"github.com/kimmyTSUI/agent-story/internal/game"
	"github.com/kimmyTSUI/agent-story/internal/logging"
	"github.com/kimmyTSUI/agent-story/internal/record"
	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

// GeneratorFactory builds the text generation backend for an
// experiment's provider and model. It is called once per game so that
// stateful offline generators start every cell fresh.
type GeneratorFactory func(provider, model string) (textgen.Generator, error)

// Config assembles a sweep run.
type Config struct {
	// Sweep is the loaded sweep definition.
	Sweep *Sweep
	// Filter optionally narrows the sweep to experiments whose names
	// match this glob pattern.
	Filter string
	// Puzzles is the puzzle set sweep entries index into.
	Puzzles []game.Puzzle
	// NewGenerator builds the backend for each game.
	NewGenerator GeneratorFactory
	// Store receives every finished game record.
	Store *record.FileStore
	// Archive optionally mirrors saved records to redis. Archive
	// failures are logged, never fatal; the JSON file remains the
	// source of truth.
	Archive *record.Archive
	// Logger receives debug logs (optional).
	Logger *logging.Logger
	// Output receives progress text (optional).
	Output io.Writer
	// Verbose prints the live transcript and evaluation progress of
	// every game instead of one result line per game.
	Verbose bool
}

// Summary aggregates one experiment's games. Rates are fractions in
// [0, 1]; AvgScore is on the rubric's 100-point scale, averaged over
// every scored final guess.
type Summary struct {
	Name        string
	Games       int
	Wins        int
	WinRate     float64
	AvgRounds   float64
	AvgScore    float64
	AvgCoverage float64
	// GameIDs are the saved record IDs, in play order.
	GameIDs []string
}

// Runner plays the experiments of a sweep one cell at a time.
type Runner struct {
	experiments []Experiment
	puzzles     []game.Puzzle
	newGen      GeneratorFactory
	store       *record.FileStore
	archive     *record.Archive
	log         *logging.Logger
	out         io.Writer
	verbose     bool
}

// NewRunner validates the configuration and resolves the experiment
// filter. A filter that matches nothing is an error, as is a sweep
// entry indexing outside the provided puzzle set.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Sweep == nil {
		return nil, errors.New("experiment: missing sweep")
	}
	if cfg.NewGenerator == nil {
		return nil, errors.New("experiment: missing generator factory")
	}
	if cfg.Store == nil {
		return nil, errors.New("experiment: missing record store")
	}

	selected, err := cfg.Sweep.Filter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no experiments match filter %q", cfg.Filter)
	}
	for _, e := range selected {
		for _, idx := range e.Puzzles {
			if _, err := game.PuzzleAt(cfg.Puzzles, idx); err != nil {
				return nil, fmt.Errorf("experiment %q: %w", e.Name, err)
			}
		}
	}

	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		experiments: selected,
		puzzles:     cfg.Puzzles,
		newGen:      cfg.NewGenerator,
		store:       cfg.Store,
		archive:     cfg.Archive,
		log:         logging.OrNop(cfg.Logger),
		out:         out,
		verbose:     cfg.Verbose,
	}, nil
}

// Experiments returns the experiments selected by the filter, in file
// order.
func (r *Runner) Experiments() []Experiment {
	return r.experiments
}

// Run plays every selected experiment and returns their summaries. The
// first error aborts the sweep; games already saved stay saved.
func (r *Runner) Run(ctx context.Context) ([]Summary, error) {
	summaries := make([]Summary, 0, len(r.experiments))
	for i, e := range r.experiments {
		r.printf("\n%s\n", strings.Repeat("=", 60))
		r.printf("实验 %d/%d: %s\n", i+1, len(r.experiments), e.Name)
		r.printf("%s\n", strings.Repeat("=", 60))

		sum, err := r.runExperiment(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("experiment %q: %w", e.Name, err)
		}
		summaries = append(summaries, sum)
		r.printSummary(sum)
	}
	return summaries, nil
}

func (r *Runner) runExperiment(ctx context.Context, e Experiment) (Summary, error) {
	log := r.log.WithExperiment(e.Name)
	log.Info("experiment start",
		"provider", e.Provider,
		"model", e.Model,
		"games", e.games(),
	)

	sum := Summary{Name: e.Name}
	var rounds, scoreSum, coverageSum float64
	var scored int

	for _, idx := range e.Puzzles {
		puzzle, err := game.PuzzleAt(r.puzzles, idx)
		if err != nil {
			return Summary{}, err
		}
		for rep := 1; rep <= e.Repeats; rep++ {
			if err := ctx.Err(); err != nil {
				return Summary{}, err
			}
			r.printf("\n--- 谜题 #%d 第 %d/%d 局 ---\n", idx, rep, e.Repeats)

			g, err := r.playCell(ctx, e, puzzle, log)
			if err != nil {
				return Summary{}, err
			}

			sum.Games++
			sum.GameIDs = append(sum.GameIDs, g.ID)
			if g.HasWinner() {
				sum.Wins++
				r.printf("结果: %s 猜中真相，用了 %d 回合\n", g.Winner, g.TotalRounds)
			} else {
				r.printf("结果: 无人猜中，共 %d 回合\n", g.TotalRounds)
			}

			rounds += float64(g.TotalRounds)
			if g.Evaluation != nil {
				coverageSum += g.Evaluation.Coverage.CoverageRate
				for _, pe := range g.Evaluation.Players {
					scoreSum += float64(pe.Scores.Total)
					scored++
				}
			}
		}
	}

	if sum.Games > 0 {
		sum.WinRate = float64(sum.Wins) / float64(sum.Games)
		sum.AvgRounds = rounds / float64(sum.Games)
		sum.AvgCoverage = coverageSum / float64(sum.Games)
	}
	if scored > 0 {
		sum.AvgScore = scoreSum / float64(scored)
	}

	log.Info("experiment complete",
		"games", sum.Games,
		"wins", sum.Wins,
		"avg_rounds", sum.AvgRounds,
		"avg_score", sum.AvgScore,
	)
	return sum, nil
}

// playCell plays, evaluates, and saves one game.
func (r *Runner) playCell(ctx context.Context, e Experiment, puzzle game.Puzzle, log *logging.Logger) (*record.Game, error) {
	gen, err := r.newGen(e.Provider, e.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s generator: %w", e.Provider, err)
	}

	var callbacks game.Callbacks
	if r.verbose {
		callbacks = game.NewTranscript(r.out).Callbacks()
	}
	coord, err := game.NewCoordinator(game.Config{
		Puzzle:    puzzle,
		Players:   e.playerSpecs(),
		MaxRounds: e.MaxRounds,
		Generator: gen,
		Logger:    log,
		Callbacks: callbacks,
	})
	if err != nil {
		return nil, err
	}
	g, err := coord.Run(ctx)
	if err != nil {
		return nil, err
	}

	ev := eval.New(gen)
	ev.Logger = log
	if r.verbose {
		ev.Progress = r.out
	}
	if _, err := ev.EvaluateAll(ctx, g); err != nil {
		return nil, err
	}

	if err := r.store.Save(g); err != nil {
		return nil, err
	}
	r.printf("\n游戏日志已保存到: %s\n", r.store.Path(g.ID))

	if r.archive != nil {
		if err := r.archive.Put(ctx, g); err != nil {
			log.Warn("failed to archive game record", "game", g.ID, "error", err)
		}
	}
	return g, nil
}

func (r *Runner) printSummary(s Summary) {
	r.printf("\n%s\n", strings.Repeat("-", 60))
	r.printf("实验 %s 汇总:\n", s.Name)
	r.printf("  共 %d 局, 猜中 %d 局 (胜率 %.1f%%)\n", s.Games, s.Wins, s.WinRate*100)
	r.printf("  平均回合数: %.1f\n", s.AvgRounds)
	r.printf("  平均总分: %.1f/100\n", s.AvgScore)
	r.printf("  平均覆盖率: %.1f%%\n", s.AvgCoverage*100)
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
