// Package eval scores a finished game: which key questions the
// players' questioning covered, how close each final guess came to the
// truth, and how much of the round budget the table burned.
package eval

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kimmyTSUI/agent-story/internal/logging"
	"github.com/kimmyTSUI/agent-story/internal/record"
	"github.com/kimmyTSUI/agent-story/internal/textgen"
)

const coverageSystemPrompt = `你是一个评估专家，需要判断玩家的提问是否覆盖了关键问题。

关键问题不需要字面上完全一致，只要语义上询问了相同或相关的内容即可。`

const scoreSystemPrompt = `你是一个评估专家，需要评估玩家的推理与真相的相似度。

请从以下维度评估：
1. 核心情节是否正确（0-10分）
2. 关键细节是否准确（0-10分）
3. 逻辑推理是否合理（0-10分）
4. 整体完整度（0-10分）

并给出总体评分（0-100分）。`

func coverageUserPrompt(keyQuestion string, questions []string) string {
	numbered := make([]string, len(questions))
	for i, q := range questions {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, q)
	}
	return fmt.Sprintf(`**关键问题：**
%s

**玩家提出的所有问题：**
%s

请判断玩家的问题中是否有覆盖到这个关键问题（语义相似即可）。

回答格式：
是/否
[如果是，请说明是哪个问题]
`, keyQuestion, strings.Join(numbered, "\n"))
}

func scoreUserPrompt(bottom, finalGuess string) string {
	return fmt.Sprintf(`**真相：**
%s

**玩家推理：**
%s

请按照以下格式评估：
核心情节：X/10 - 简要说明
关键细节：X/10 - 简要说明
逻辑推理：X/10 - 简要说明
整体完整度：X/10 - 简要说明
总体评分：X/100
`, bottom, finalGuess)
}

// Evaluator runs the post-game passes over a finished record.
type Evaluator struct {
	// Generator judges coverage and scores final guesses.
	Generator textgen.Generator
	// Logger may be nil.
	Logger *logging.Logger
	// Progress, when set, receives the stage-by-stage console lines.
	Progress io.Writer
}

// New returns an Evaluator that judges with gen and stays quiet.
func New(gen textgen.Generator) *Evaluator {
	return &Evaluator{Generator: gen}
}

func (e *Evaluator) progressf(format string, args ...any) {
	if e.Progress != nil {
		fmt.Fprintf(e.Progress, format, args...)
	}
}

// EvaluateCoverage judges, one model call per key question, whether
// the players' questions covered it. Only real questions count; guess
// rounds are excluded. A key question is covered when the trimmed
// reply starts with 是.
func (e *Evaluator) EvaluateCoverage(ctx context.Context, g *record.Game) (record.CoverageEvaluation, error) {
	questions := g.Questions()

	cov := record.CoverageEvaluation{
		Details:           make(map[string]record.CoverageDetail, len(g.KeyQuestions)),
		TotalKeyQuestions: len(g.KeyQuestions),
	}
	for _, keyQ := range g.KeyQuestions {
		resp, err := e.Generator.Generate(ctx, coverageSystemPrompt, coverageUserPrompt(keyQ, questions))
		if err != nil {
			return record.CoverageEvaluation{}, fmt.Errorf("failed to evaluate coverage of %q: %w", keyQ, err)
		}
		covered := strings.HasPrefix(strings.TrimSpace(resp), "是")
		cov.Details[keyQ] = record.CoverageDetail{Covered: covered, Response: resp}
		if covered {
			cov.CoveredCount++
		}
	}
	if len(g.KeyQuestions) > 0 {
		cov.CoverageRate = float64(cov.CoveredCount) / float64(len(g.KeyQuestions))
	}
	return cov, nil
}

// EvaluatePlayer scores one player's final guess against the bottom
// and parses the rubric out of the reply.
func (e *Evaluator) EvaluatePlayer(ctx context.Context, g *record.Game, name string) (record.PlayerEvaluation, error) {
	finalGuess := g.FinalGuesses[name]

	resp, err := e.Generator.Generate(ctx, scoreSystemPrompt, scoreUserPrompt(g.Bottom, finalGuess))
	if err != nil {
		return record.PlayerEvaluation{}, fmt.Errorf("failed to score final guess of %s: %w", name, err)
	}
	return record.PlayerEvaluation{
		PlayerName:         name,
		FinalGuess:         finalGuess,
		EvaluationResponse: resp,
		Scores:             ParseScores(resp),
	}, nil
}

// EvaluateEfficiency computes round usage without any model calls.
// The rate is the unused share of the budget; a record without a
// positive budget rates zero.
func (e *Evaluator) EvaluateEfficiency(g *record.Game) record.EfficiencyEvaluation {
	stats := make(map[string]record.PlayerStats)
	for _, r := range g.Rounds {
		s := stats[r.Player]
		if r.IsGuess {
			s.Guesses++
		} else {
			s.Questions++
		}
		stats[r.Player] = s
	}

	eff := record.EfficiencyEvaluation{
		TotalRounds: g.TotalRounds,
		MaxRounds:   g.MaxRounds,
		PlayerStats: stats,
	}
	if g.MaxRounds > 0 {
		eff.EfficiencyRate = 1 - float64(g.TotalRounds)/float64(g.MaxRounds)
	}
	return eff
}

// EvaluateAll runs all three passes and attaches the result to the
// record, replacing any previous evaluation. Players are scored in
// configured order; only those with a final guess are scored.
func (e *Evaluator) EvaluateAll(ctx context.Context, g *record.Game) (*record.Evaluation, error) {
	log := logging.OrNop(e.Logger).WithGame(g.ID)
	sep := strings.Repeat("=", 60)
	e.progressf("\n%s\n开始评估游戏表现...\n%s\n", sep, sep)

	e.progressf("\n1. 评估关键问题覆盖率...\n")
	coverage, err := e.EvaluateCoverage(ctx, g)
	if err != nil {
		return nil, err
	}
	e.progressf("   覆盖了 %d/%d 个关键问题\n", coverage.CoveredCount, coverage.TotalKeyQuestions)
	e.progressf("   覆盖率: %s\n", percent(coverage.CoverageRate))

	e.progressf("\n2. 评估玩家最终推理...\n")
	players := make(map[string]record.PlayerEvaluation, len(g.FinalGuesses))
	for _, p := range g.Players {
		if _, ok := g.FinalGuesses[p.Name]; !ok {
			continue
		}
		e.progressf("   评估 %s...\n", p.Name)
		pe, err := e.EvaluatePlayer(ctx, g, p.Name)
		if err != nil {
			return nil, err
		}
		players[p.Name] = pe
		e.progressf("   %s 总分: %d/100\n", p.Name, pe.Scores.Total)
	}

	e.progressf("\n3. 评估游戏效率...\n")
	efficiency := e.EvaluateEfficiency(g)
	e.progressf("   使用回合数: %d/%d\n", efficiency.TotalRounds, efficiency.MaxRounds)

	result := &record.Evaluation{
		Coverage:   coverage,
		Players:    players,
		Efficiency: efficiency,
	}
	g.Evaluation = result

	log.Info("evaluation complete",
		"coverage_rate", coverage.CoverageRate,
		"players_scored", len(players),
		"efficiency_rate", efficiency.EfficiencyRate)
	e.progressf("\n%s\n评估完成！\n%s\n", sep, sep)
	return result, nil
}

func percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
