package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kimmyTSUI/agent-story/internal/config"
	"github.com/kimmyTSUI/agent-story/internal/eval"
	"github.com/kimmyTSUI/agent-story/internal/record"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <game-id>",
	Short: "Re-evaluate a saved game record",
	Long: `Load a saved game record by ID, run the full evaluation against the
configured provider, print the detailed report, and write the updated
record back.

Use 'agent-story records' to see the available IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

var (
	evaluateProvider string
	evaluateModel    string
	evaluateNoSave   bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateProvider, "provider", "p", "", "text generation backend for the evaluation passes")
	evaluateCmd.Flags().StringVar(&evaluateModel, "model", "", "override the provider's default model")
	evaluateCmd.Flags().BoolVar(&evaluateNoSave, "no-save", false, "print the report without rewriting the record")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := record.NewFileStore(cfg.Records.Dir)
	if err != nil {
		return err
	}
	g, err := store.Load(args[0])
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, evaluateProvider, evaluateModel)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Close()

	out := cmd.OutOrStdout()
	ev := eval.New(gen)
	ev.Logger = log.WithGame(g.ID)
	ev.Progress = out
	if _, err := ev.EvaluateAll(cmd.Context(), g); err != nil {
		return err
	}
	if err := eval.WriteReport(out, g); err != nil {
		return err
	}

	if evaluateNoSave {
		return nil
	}
	if err := store.Save(g); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n游戏日志已保存到: %s\n", store.Path(g.ID))
	return nil
}
