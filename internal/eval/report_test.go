package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kimmyTSUI/agent-story/internal/record"
)

func newEvaluatedGame() *record.Game {
	g := newEvalGame()
	g.Evaluation = &record.Evaluation{
		Coverage: record.CoverageEvaluation{
			Details: map[string]record.CoverageDetail{
				"他是故意假死的吗？": {Covered: true, Response: "是"},
				"他涉及非法活动吗？": {Covered: false, Response: "否"},
			},
			CoveredCount:      1,
			TotalKeyQuestions: 2,
			CoverageRate:      0.5,
		},
		Players: map[string]record.PlayerEvaluation{
			"系统派": {
				PlayerName: "系统派",
				Scores:     record.Scores{CorePlot: 8, KeyDetails: 7, LogicalReasoning: 8, Completeness: 7, Total: 75},
			},
			"创意派": {
				PlayerName: "创意派",
				Scores:     record.Scores{CorePlot: 6, KeyDetails: 5, LogicalReasoning: 7, Completeness: 6, Total: 60},
			},
		},
		Efficiency: record.EfficiencyEvaluation{
			TotalRounds:    4,
			MaxRounds:      12,
			EfficiencyRate: 1 - 4.0/12.0,
			PlayerStats: map[string]record.PlayerStats{
				"系统派": {Questions: 1, Guesses: 1},
				"创意派": {Questions: 2},
			},
		},
	}
	return g
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, newEvaluatedGame()); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"详细评估报告",
		"【关键问题覆盖情况】",
		"覆盖率: 50.0% (1/2)",
		"✓",
		"✗",
		"他是故意假死的吗？",
		"【玩家表现评分】",
		"系统派:",
		"  核心情节: 8/10",
		"  关键细节: 7/10",
		"  逻辑推理: 8/10",
		"  整体完整度: 7/10",
		"  总体评分: 75/100",
		"  总体评分: 60/100",
		"【游戏效率】",
		"回合使用: 4/12",
		"效率评分: 66.7%",
		"各玩家提问统计:",
		"  系统派: 1 个问题, 1 次推理",
		"  创意派: 2 个问题, 0 次推理",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report is missing %q", want)
		}
	}

	// Key questions keep their configured order.
	if strings.Index(out, "他是故意假死的吗？") > strings.Index(out, "他涉及非法活动吗？") {
		t.Error("key questions are out of order")
	}
	// Players keep their configured order too.
	if strings.Index(out, "系统派:") > strings.Index(out, "创意派:") {
		t.Error("player sections are out of order")
	}
}

func TestWriteReportRequiresEvaluation(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, newEvalGame()); err == nil {
		t.Fatal("WriteReport() on an unevaluated record did not error")
	}
}
