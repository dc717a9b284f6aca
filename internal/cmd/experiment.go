package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kimmyTSUI/agent-story/internal/config"
	"github.com/kimmyTSUI/agent-story/internal/experiment"
	"github.com/kimmyTSUI/agent-story/internal/game"
	"github.com/kimmyTSUI/agent-story/internal/record"
	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment <sweep-file>",
	Short: "Run a sweep of experiments from a YAML file",
	Long: `Run every experiment defined in a YAML sweep file. Each experiment
pins a provider, a player lineup, a round budget, and the puzzles to
play; the runner plays every cell sequentially, evaluates and saves
each game, and prints a per-experiment summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runExperiment,
}

var (
	experimentFilter string
	experimentQuiet  bool
)

func init() {
	rootCmd.AddCommand(experimentCmd)

	experimentCmd.Flags().StringVarP(&experimentFilter, "filter", "f", "", "glob pattern selecting experiments by name")
	experimentCmd.Flags().BoolVarP(&experimentQuiet, "quiet", "q", false, "suppress game transcripts, print results only")
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sweep, err := experiment.LoadSweep(args[0])
	if err != nil {
		return err
	}

	var puzzles []game.Puzzle
	if sweep.PuzzleFile != "" {
		puzzles, err = game.LoadPuzzles(sweep.PuzzleFile)
	} else {
		puzzles, err = loadPuzzleSet(cfg)
	}
	if err != nil {
		return err
	}

	store, err := record.NewFileStore(cfg.Records.Dir)
	if err != nil {
		return err
	}
	archive := openArchive(cfg)
	if archive != nil {
		defer archive.Close()
	}
	log := newLogger(cfg)
	defer log.Close()

	runner, err := experiment.NewRunner(experiment.Config{
		Sweep:   sweep,
		Filter:  experimentFilter,
		Puzzles: puzzles,
		NewGenerator: func(provider, model string) (textgen.Generator, error) {
			return newGenerator(cfg, provider, model)
		},
		Store:   store,
		Archive: archive,
		Logger:  log,
		Output:  cmd.OutOrStdout(),
		Verbose: !experimentQuiet,
	})
	if err != nil {
		return err
	}

	_, err = runner.Run(cmd.Context())
	return err
}
