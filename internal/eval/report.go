package eval

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kimmyTSUI/agent-story/internal/record"
)

var (
	reportTitleStyle   = lipgloss.NewStyle().Bold(true)
	reportSectionStyle = lipgloss.NewStyle().Bold(true)
	coveredMarkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	uncoveredMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// WriteReport renders the detailed post-game report for an evaluated
// record: coverage per key question, the score rubric per player, and
// round usage.
func WriteReport(w io.Writer, g *record.Game) error {
	if g.Evaluation == nil {
		return errors.New("eval: record has not been evaluated")
	}
	ev := g.Evaluation
	banner := strings.Repeat("#", 60)

	fmt.Fprintf(w, "\n%s\n%s\n%s\n", banner, reportTitleStyle.Render("详细评估报告"), banner)

	fmt.Fprintf(w, "\n%s\n", reportSectionStyle.Render("【关键问题覆盖情况】"))
	cov := ev.Coverage
	fmt.Fprintf(w, "覆盖率: %s (%d/%d)\n", percent(cov.CoverageRate), cov.CoveredCount, cov.TotalKeyQuestions)
	fmt.Fprintf(w, "\n详细情况:\n")
	for i, keyQ := range g.KeyQuestions {
		detail, ok := cov.Details[keyQ]
		if !ok {
			continue
		}
		mark := uncoveredMarkStyle.Render("✗")
		if detail.Covered {
			mark = coveredMarkStyle.Render("✓")
		}
		fmt.Fprintf(w, "%d. %s %s\n", i+1, mark, keyQ)
	}

	fmt.Fprintf(w, "\n%s\n", reportSectionStyle.Render("【玩家表现评分】"))
	for _, p := range g.Players {
		pe, ok := ev.Players[p.Name]
		if !ok {
			continue
		}
		s := pe.Scores
		fmt.Fprintf(w, "\n%s:\n", p.Name)
		fmt.Fprintf(w, "  核心情节: %d/10\n", s.CorePlot)
		fmt.Fprintf(w, "  关键细节: %d/10\n", s.KeyDetails)
		fmt.Fprintf(w, "  逻辑推理: %d/10\n", s.LogicalReasoning)
		fmt.Fprintf(w, "  整体完整度: %d/10\n", s.Completeness)
		fmt.Fprintf(w, "  总体评分: %d/100\n", s.Total)
	}

	fmt.Fprintf(w, "\n%s\n", reportSectionStyle.Render("【游戏效率】"))
	eff := ev.Efficiency
	fmt.Fprintf(w, "回合使用: %d/%d\n", eff.TotalRounds, eff.MaxRounds)
	fmt.Fprintf(w, "效率评分: %s\n", percent(eff.EfficiencyRate))
	fmt.Fprintf(w, "\n各玩家提问统计:\n")
	for _, p := range g.Players {
		stats, ok := eff.PlayerStats[p.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s: %d 个问题, %d 次推理\n", p.Name, stats.Questions, stats.Guesses)
	}

	fmt.Fprintf(w, "\n%s\n", banner)
	return nil
}
