package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

func testPuzzle() Puzzle {
	return Puzzle{
		Index:        0,
		Surface:      "男人收到一封信。",
		Bottom:       "他假死逃到了岛上。",
		KeyQuestions: []string{"他是故意假死的吗？"},
	}
}

func TestOracleAnswerQuestion(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Answer
	}{
		{"affirms", "是。", AnswerYes},
		{"denies", "否。他没有死。", AnswerNo},
		{"dismisses", "不相关。", AnswerIrrelevant},
		{"malformed reply is irrelevant", "我不能告诉你。", AnswerIrrelevant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOracle(testPuzzle(), textgen.NewScripted(tt.reply))
			got, err := o.AnswerQuestion(context.Background(), "他死了吗？")
			if err != nil {
				t.Fatalf("AnswerQuestion() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AnswerQuestion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOracleEvaluateGuessCollapsesToBinary(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Answer
	}{
		{"accepts", "是，完全正确。", AnswerYes},
		{"rejects", "否。", AnswerNo},
		{"irrelevant counts as rejection", "不相关。", AnswerNo},
		{"malformed counts as rejection", "这很难说。", AnswerNo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOracle(testPuzzle(), textgen.NewScripted(tt.reply))
			got, err := o.EvaluateGuess(context.Background(), "[推理] 他假死了。")
			if err != nil {
				t.Fatalf("EvaluateGuess() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateGuess() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOraclePromptsCarryTheStory(t *testing.T) {
	var system, user string
	gen := textgen.GeneratorFunc(func(_ context.Context, s, u string) (string, error) {
		system, user = s, u
		return "是。", nil
	})

	o := NewOracle(testPuzzle(), gen)
	if _, err := o.AnswerQuestion(context.Background(), "他死了吗？"); err != nil {
		t.Fatalf("AnswerQuestion() error = %v", err)
	}

	if !strings.Contains(system, "他假死逃到了岛上。") {
		t.Error("system prompt does not contain the bottom")
	}
	if !strings.Contains(user, "玩家问题：他死了吗？") {
		t.Errorf("user prompt = %q", user)
	}
}

func TestOraclePropagatesGeneratorErrors(t *testing.T) {
	genErr := errors.New("api unreachable")
	gen := textgen.GeneratorFunc(func(context.Context, string, string) (string, error) {
		return "", genErr
	})
	o := NewOracle(testPuzzle(), gen)

	if _, err := o.AnswerQuestion(context.Background(), "他死了吗？"); !errors.Is(err, genErr) {
		t.Errorf("AnswerQuestion() error = %v, want wrapped %v", err, genErr)
	}
	if _, err := o.EvaluateGuess(context.Background(), "[推理] ..."); !errors.Is(err, genErr) {
		t.Errorf("EvaluateGuess() error = %v, want wrapped %v", err, genErr)
	}
}
