package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/kimmyTSUI/agent-story/internal/record"
)

const bannerWidth = 60

// Transcript narrates a game to a writer through coordinator callbacks.
// It carries per-game state (the final-guess banner prints once), so use
// a fresh Transcript for each game.
type Transcript struct {
	w           io.Writer
	finalBanner bool
}

// NewTranscript creates a transcript writer targeting w.
func NewTranscript(w io.Writer) *Transcript {
	return &Transcript{w: w}
}

// Callbacks returns the callback set that drives this transcript.
func (t *Transcript) Callbacks() Callbacks {
	return Callbacks{
		OnGameStart:   t.gameStart,
		OnRoundStart:  t.roundStart,
		OnRoundPlayed: t.roundPlayed,
		OnFinalGuess:  t.finalGuess,
		OnGameEnd:     t.gameEnd,
	}
}

func (t *Transcript) banner(ch, title string) {
	line := strings.Repeat(ch, bannerWidth)
	fmt.Fprintf(t.w, "\n%s\n%s\n%s\n", line, title, line)
}

func (t *Transcript) gameStart(g *record.Game) {
	t.banner("#", "海龟汤游戏开始！")
	fmt.Fprintf(t.w, "\n汤面：%s\n", g.Surface)
	fmt.Fprintf(t.w, "\n玩家：%s\n", strings.Join(g.PlayerNames(), ", "))
	fmt.Fprintf(t.w, "最大回合数：%d\n", g.MaxRounds)
}

func (t *Transcript) roundStart(round int, player string) {
	t.banner("=", fmt.Sprintf("回合 %d - %s 的回合", round, player))
}

func (t *Transcript) roundPlayed(r record.Round) {
	fmt.Fprintf(t.w, "\n%s: %s\n", r.Player, r.Question)
	fmt.Fprintf(t.w, "主持人: %s\n", r.Answer)
	if r.IsGuess {
		fmt.Fprintf(t.w, "\n%s 给出了推理！\n", r.Player)
		if r.GuessCorrect {
			fmt.Fprintf(t.w, "%s 猜中真相，游戏暂停！\n", r.Player)
		}
	}
}

func (t *Transcript) finalGuess(player, guess string) {
	if !t.finalBanner {
		t.banner("#", "游戏结束！请各位玩家给出最终推理")
		t.finalBanner = true
	}
	fmt.Fprintf(t.w, "\n%s 的最终推理：\n%s\n", player, guess)
}

func (t *Transcript) gameEnd(g *record.Game) {
	t.banner("#", "真相揭晓！")
	fmt.Fprintf(t.w, "\n%s\n", g.Bottom)
}
