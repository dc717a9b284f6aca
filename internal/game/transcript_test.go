package game

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

func TestTranscriptWinningGame(t *testing.T) {
	gen := textgen.NewScripted(
		"[提问] 他死了吗？",
		"否。",
		"[推理] 他假死逃到了岛上。",
		"是。",
	)
	var buf bytes.Buffer
	c := newTestCoordinator(t, Config{
		Generator: gen,
		MaxRounds: 5,
		Callbacks: NewTranscript(&buf).Callbacks(),
	})

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	sep := strings.Repeat("#", 60)
	wantOrder := []string{
		sep,
		"海龟汤游戏开始！",
		"汤面：男人收到一封信。",
		"玩家：Player1, Player2",
		"最大回合数：5",
		"回合 1 - Player1 的回合",
		"\nPlayer1: [提问] 他死了吗？\n",
		"主持人: 否\n",
		"回合 2 - Player2 的回合",
		"\nPlayer2: [推理] 他假死逃到了岛上。\n",
		"主持人: 是\n",
		"Player2 给出了推理！",
		"Player2 猜中真相，游戏暂停！",
		"真相揭晓！",
		"他假死逃到了岛上。",
	}
	pos := 0
	for _, want := range wantOrder {
		idx := strings.Index(out[pos:], want)
		if idx < 0 {
			t.Fatalf("transcript is missing %q after offset %d:\n%s", want, pos, out)
		}
		pos += idx + len(want)
	}

	if strings.Contains(out, "游戏结束！请各位玩家给出最终推理") {
		t.Error("transcript printed the final-guess banner for a won game")
	}
	if strings.Count(out, "的回合") != 2 {
		t.Errorf("transcript has %d round banners, want 2", strings.Count(out, "的回合"))
	}
}

func TestTranscriptExhaustedGame(t *testing.T) {
	gen := textgen.NewScripted(
		"[提问] 有关系吗？",
		"不相关。",
		"[提问] 是意外吗？",
		"否。",
		"[最终推理] Player1 的结论。",
		"[最终推理] Player2 的结论。",
	)
	var buf bytes.Buffer
	c := newTestCoordinator(t, Config{
		Generator: gen,
		MaxRounds: 2,
		Callbacks: NewTranscript(&buf).Callbacks(),
	})

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	if got := strings.Count(out, "游戏结束！请各位玩家给出最终推理"); got != 1 {
		t.Errorf("final-guess banner printed %d times, want 1", got)
	}
	wantOrder := []string{
		"游戏结束！请各位玩家给出最终推理",
		"\nPlayer1 的最终推理：\n[最终推理] Player1 的结论。\n",
		"\nPlayer2 的最终推理：\n[最终推理] Player2 的结论。\n",
		"真相揭晓！",
	}
	pos := 0
	for _, want := range wantOrder {
		idx := strings.Index(out[pos:], want)
		if idx < 0 {
			t.Fatalf("transcript is missing %q after offset %d:\n%s", want, pos, out)
		}
		pos += idx + len(want)
	}
}
