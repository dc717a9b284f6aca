package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kimmyTSUI/agent-story/internal/config"
	"github.com/kimmyTSUI/agent-story/internal/record"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List saved game records",
	Long: `List the game records in the configured records directory, newest
last: record ID, puzzle index, rounds used, and who won.`,
	RunE: runRecords,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := record.NewFileStore(cfg.Records.Dir)
	if err != nil {
		return err
	}

	ids, err := store.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "还没有保存的对局记录。")
		return nil
	}
	for _, id := range ids {
		g, err := store.Load(id)
		if err != nil {
			fmt.Fprintf(out, "%s  (无法读取: %v)\n", id, err)
			continue
		}
		winner := g.Winner
		if winner == "" {
			winner = "无人猜中"
		}
		fmt.Fprintf(out, "%s  谜题 #%d  回合 %d/%d  %s\n", id, g.PuzzleIndex, g.TotalRounds, g.MaxRounds, winner)
	}
	return nil
}
