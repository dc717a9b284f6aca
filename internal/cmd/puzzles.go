package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kimmyTSUI/agent-story/internal/config"
	"github.com/kimmyTSUI/agent-story/internal/util"
)

var puzzlesCmd = &cobra.Command{
	Use:   "puzzles",
	Short: "List the configured puzzle set",
	Long: `List the puzzles the other commands index into: the configured
puzzle file, or the built-in set when none is configured.

--full also prints the hidden story and the key questions, which
spoils the puzzles.`,
	RunE: runPuzzles,
}

var puzzlesFull bool

var puzzleIndexStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

func init() {
	rootCmd.AddCommand(puzzlesCmd)

	puzzlesCmd.Flags().BoolVar(&puzzlesFull, "full", false, "also print the hidden story and key questions")
}

func runPuzzles(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	puzzles, err := loadPuzzleSet(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, p := range puzzles {
		fmt.Fprintf(out, "%s 汤面: %s\n", puzzleIndexStyle.Render(fmt.Sprintf("#%d", i)), util.TruncateString(p.Surface, 64))
		if puzzlesFull {
			fmt.Fprintf(out, "   汤底: %s\n", p.Bottom)
			for _, q := range p.KeyQuestions {
				fmt.Fprintf(out, "   关键问题: %s\n", q)
			}
		} else {
			fmt.Fprintf(out, "   关键问题: %d 个\n", len(p.KeyQuestions))
		}
	}
	return nil
}
