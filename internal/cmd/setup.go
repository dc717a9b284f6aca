package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/kimmyTSUI/agent-story/internal/config"
	"github.com/kimmyTSUI/agent-story/internal/game"
	"github.com/kimmyTSUI/agent-story/internal/logging"
	"github.com/kimmyTSUI/agent-story/internal/record"
	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

// newLogger opens the debug logger per configuration. Logging problems
// degrade to a nop logger instead of blocking the game.
func newLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	log, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to open debug log: %v\n", err)
		return logging.NopLogger()
	}
	return log
}

// loadPuzzleSet returns the configured puzzle file, or the built-in set
// when none is configured.
func loadPuzzleSet(cfg *config.Config) ([]game.Puzzle, error) {
	if cfg.Puzzles.File == "" {
		return game.DefaultPuzzles(), nil
	}
	return game.LoadPuzzles(cfg.Puzzles.File)
}

// newGenerator builds the text generation backend from configuration,
// with optional provider and model overrides from flags or sweep cells.
func newGenerator(cfg *config.Config, provider, model string) (textgen.Generator, error) {
	pc := cfg.Provider
	if provider != "" {
		pc.Name = provider
	}
	if model != "" {
		switch strings.ToLower(pc.Name) {
		case string(textgen.ProviderOpenAI):
			pc.OpenAI.Model = model
		case string(textgen.ProviderAnthropic):
			pc.Anthropic.Model = model
		}
	}
	return textgen.New(pc)
}

// openArchive returns the configured redis mirror, or nil when the
// archive is disabled.
func openArchive(cfg *config.Config) *record.Archive {
	if !cfg.Archive.Enabled {
		return nil
	}
	return record.NewArchive(cfg.Archive.Addr, cfg.Archive.Password, cfg.Archive.DB, cfg.Archive.TTL())
}
