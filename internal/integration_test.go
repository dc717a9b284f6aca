// Package internal carries cross-package tests: the full offline
// pipeline from a played game through evaluation, the file store, and
// the redis archive.
package internal

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kimmyTSUI/agent-story/internal/eval"
	"github.com/kimmyTSUI/agent-story/internal/game"
	"github.com/kimmyTSUI/agent-story/internal/record"
	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

// TestOfflineGamePipeline plays the scripted smart-mock game end to
// end: coordinator, evaluation, file store round-trip, and archive
// mirror, without touching any network API.
func TestOfflineGamePipeline(t *testing.T) {
	ctx := context.Background()
	gen := textgen.NewSmartMock()

	puzzle, err := game.PuzzleAt(game.DefaultPuzzles(), 0)
	if err != nil {
		t.Fatalf("PuzzleAt() error = %v", err)
	}

	coord, err := game.NewCoordinator(game.Config{
		Puzzle: puzzle,
		Players: []record.PlayerSpec{
			{Name: "系统派", Strategy: "systematic"},
			{Name: "创意派", Strategy: "creative"},
		},
		MaxRounds: 12,
		Generator: gen,
	})
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}
	g, err := coord.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if g.Winner != "系统派" {
		t.Errorf("Winner = %q, want 系统派", g.Winner)
	}
	if g.TotalRounds != 9 {
		t.Errorf("TotalRounds = %d, want 9", g.TotalRounds)
	}

	result, err := eval.New(gen).EvaluateAll(ctx, g)
	if err != nil {
		t.Fatalf("EvaluateAll() error = %v", err)
	}
	if result.Coverage.CoveredCount != 4 {
		t.Errorf("CoveredCount = %d, want 4", result.Coverage.CoveredCount)
	}
	if pe, ok := result.Players["系统派"]; !ok || pe.Scores.Total != 75 {
		t.Errorf("winner evaluation = %+v, want total 75", pe)
	}
	if _, ok := result.Players["创意派"]; ok {
		t.Error("player without a final guess was scored")
	}

	store, err := record.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.Save(g); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := store.Load(g.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Winner != g.Winner || loaded.TotalRounds != g.TotalRounds {
		t.Errorf("loaded record = %s/%d rounds, want %s/%d", loaded.Winner, loaded.TotalRounds, g.Winner, g.TotalRounds)
	}
	if loaded.Evaluation == nil || loaded.Evaluation.Coverage.CoveredCount != 4 {
		t.Error("evaluation did not survive the store round-trip")
	}

	mr := miniredis.RunT(t)
	archive := record.NewArchive(mr.Addr(), "", 0, time.Hour)
	defer archive.Close()

	if err := archive.Put(ctx, g); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	mirrored, err := archive.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if mirrored.Winner != g.Winner {
		t.Errorf("archived Winner = %q, want %q", mirrored.Winner, g.Winner)
	}
	ids, err := archive.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != g.ID {
		t.Errorf("archive List() = %v, want [%s]", ids, g.ID)
	}
}
