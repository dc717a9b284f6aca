package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kimmyTSUI/agent-story/internal/config"
	"github.com/kimmyTSUI/agent-story/internal/eval"
	"github.com/kimmyTSUI/agent-story/internal/game"
	"github.com/kimmyTSUI/agent-story/internal/record"
	"github.com/kimmyTSUI/agent-story/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one automated game",
	Long: `Play one turtle soup game with the configured players: the host
answers ternary questions about the hidden story while the players take
turns questioning and guessing. The finished game is evaluated, a
detailed report is printed, and the record is saved.

On a terminal, running play without --provider opens an interactive
menu to pick the backend and the puzzle.`,
	RunE: runPlay,
}

var (
	playProvider  string
	playModel     string
	playPuzzle    int
	playMaxRounds int
	playNoSave    bool
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVarP(&playProvider, "provider", "p", "", "text generation backend: openai, anthropic, mock, smart-mock")
	playCmd.Flags().StringVar(&playModel, "model", "", "override the provider's default model")
	playCmd.Flags().IntVar(&playPuzzle, "puzzle", -1, "puzzle index to play (default from config)")
	playCmd.Flags().IntVar(&playMaxRounds, "max-rounds", 0, "round budget shared by all players (default from config)")
	playCmd.Flags().BoolVar(&playNoSave, "no-save", false, "do not save the game record")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	puzzles, err := loadPuzzleSet(cfg)
	if err != nil {
		return err
	}

	provider := playProvider
	puzzleIndex := cfg.Puzzles.Index
	if playPuzzle >= 0 {
		puzzleIndex = playPuzzle
	}

	// The classic "请选择 (1/2/3)" menu: no explicit provider on a
	// terminal opens the launcher.
	if provider == "" && term.IsTerminal(int(os.Stdout.Fd())) {
		sel, err := tui.RunLauncher(puzzles, cfg.Provider.Name)
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		provider = sel.Provider
		if playPuzzle < 0 {
			puzzleIndex = sel.PuzzleIndex
		}
	}

	puzzle, err := game.PuzzleAt(puzzles, puzzleIndex)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg, provider, playModel)
	if err != nil {
		return err
	}

	maxRounds := cfg.Game.MaxRounds
	if playMaxRounds > 0 {
		maxRounds = playMaxRounds
	}
	players := make([]record.PlayerSpec, len(cfg.Game.Players))
	for i, p := range cfg.Game.Players {
		players[i] = record.PlayerSpec{Name: p.Name, Strategy: p.Strategy}
	}

	log := newLogger(cfg)
	defer log.Close()

	out := cmd.OutOrStdout()
	coord, err := game.NewCoordinator(game.Config{
		Puzzle:    puzzle,
		Players:   players,
		MaxRounds: maxRounds,
		Generator: gen,
		Logger:    log,
		Callbacks: game.NewTranscript(out).Callbacks(),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	g, err := coord.Run(ctx)
	if err != nil {
		return err
	}

	ev := eval.New(gen)
	ev.Logger = log
	ev.Progress = out
	if _, err := ev.EvaluateAll(ctx, g); err != nil {
		return err
	}
	if err := eval.WriteReport(out, g); err != nil {
		return err
	}

	if playNoSave {
		return nil
	}
	store, err := record.NewFileStore(cfg.Records.Dir)
	if err != nil {
		return err
	}
	if err := store.Save(g); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n游戏日志已保存到: %s\n", store.Path(g.ID))

	if archive := openArchive(cfg); archive != nil {
		defer archive.Close()
		if err := archive.Put(ctx, g); err != nil {
			log.Warn("failed to archive game record", "game", g.ID, "error", err)
		}
	}
	return nil
}
