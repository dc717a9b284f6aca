// Package tui holds the interactive pieces of the agent-story CLI. The
// launcher replaces the play command's flags when stdout is a terminal
// and no provider was given: a two-step menu picks the backend and the
// puzzle.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kimmyTSUI/agent-story/internal/game"
	"github.com/kimmyTSUI/agent-story/internal/textgen"
	"github.com/kimmyTSUI/agent-story/internal/util"
)

// ErrCancelled is returned when the user backs out of the launcher.
var ErrCancelled = errors.New("tui: selection cancelled")

// Selection is the launcher's result. PuzzleIndex is the position in
// the puzzle set handed to RunLauncher.
type Selection struct {
	Provider    string
	PuzzleIndex int
}

var (
	launcherTitleStyle    = lipgloss.NewStyle().Bold(true)
	launcherCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	launcherSelectedStyle = lipgloss.NewStyle().Bold(true)
	launcherHintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const surfaceMenuWidth = 44

type launcherPhase int

const (
	phaseProvider launcherPhase = iota
	phasePuzzle
)

// providerOption pairs a provider name with its menu label.
type providerOption struct {
	name  string
	label string
}

func providerOptions() []providerOption {
	return []providerOption{
		{string(textgen.ProviderOpenAI), "OpenAI (需要设置OPENAI_API_KEY)"},
		{string(textgen.ProviderAnthropic), "Anthropic (需要设置ANTHROPIC_API_KEY)"},
		{string(textgen.ProviderMock), "Mock API (测试模式，不调用真实API)"},
		{string(textgen.ProviderSmartMock), "Smart Mock API (离线演示一局完整游戏)"},
	}
}

type launcherModel struct {
	phase     launcherPhase
	providers []providerOption
	puzzles   []game.Puzzle
	provIndex int
	puzzIndex int
	done      bool
	cancelled bool
}

func newLauncher(puzzles []game.Puzzle, defaultProvider string) launcherModel {
	m := launcherModel{
		providers: providerOptions(),
		puzzles:   puzzles,
	}
	for i, p := range m.providers {
		if p.name == defaultProvider {
			m.provIndex = i
			break
		}
	}
	return m
}

func (m launcherModel) Init() tea.Cmd { return nil }

func (m launcherModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit

	case "esc":
		if m.phase == phasePuzzle {
			m.phase = phaseProvider
			return m, nil
		}
		m.cancelled = true
		return m, tea.Quit

	case "up", "k":
		return m.moved(-1), nil

	case "down", "j":
		return m.moved(1), nil

	case "enter", " ":
		return m.choose()

	default:
		// The classic menu took "请选择 (1/2/3)", so digits still work.
		if n, err := strconv.Atoi(key.String()); err == nil {
			return m.chooseNumber(n)
		}
	}
	return m, nil
}

func (m launcherModel) moved(delta int) launcherModel {
	switch m.phase {
	case phaseProvider:
		m.provIndex = wrapIndex(m.provIndex+delta, len(m.providers))
	case phasePuzzle:
		m.puzzIndex = wrapIndex(m.puzzIndex+delta, len(m.puzzles))
	}
	return m
}

func (m launcherModel) choose() (tea.Model, tea.Cmd) {
	if m.phase == phaseProvider {
		m.phase = phasePuzzle
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m launcherModel) chooseNumber(n int) (tea.Model, tea.Cmd) {
	limit := len(m.providers)
	if m.phase == phasePuzzle {
		limit = len(m.puzzles)
	}
	if n < 1 || n > limit {
		return m, nil
	}
	if m.phase == phaseProvider {
		m.provIndex = n - 1
	} else {
		m.puzzIndex = n - 1
	}
	return m.choose()
}

func wrapIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func (m launcherModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	switch m.phase {
	case phaseProvider:
		b.WriteString(launcherTitleStyle.Render("选择LLM API:"))
		b.WriteString("\n\n")
		for i, opt := range m.providers {
			b.WriteString(m.renderRow(fmt.Sprintf("%d. %s", i+1, opt.label), i == m.provIndex))
			b.WriteString("\n")
		}
	case phasePuzzle:
		b.WriteString(launcherTitleStyle.Render("选择谜题:"))
		b.WriteString("\n\n")
		for i, p := range m.puzzles {
			label := fmt.Sprintf("%d. %s", i+1, util.TruncateANSI(p.Surface, surfaceMenuWidth))
			b.WriteString(m.renderRow(label, i == m.puzzIndex))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	b.WriteString("\n")
	return b.String()
}

func (m launcherModel) renderRow(label string, selected bool) string {
	if selected {
		return fmt.Sprintf("  %s %s", launcherCursorStyle.Render(">"), launcherSelectedStyle.Render(label))
	}
	return fmt.Sprintf("    %s", label)
}

func (m launcherModel) renderHelp() string {
	if m.phase == phaseProvider {
		return launcherHintStyle.Render("j/k 移动  enter 确认  数字键直选  q 退出")
	}
	return launcherHintStyle.Render("j/k 移动  enter 开始游戏  esc 返回  q 退出")
}

// RunLauncher shows the two-step provider and puzzle menu and returns
// the user's choice. It returns ErrCancelled when the user backs out.
func RunLauncher(puzzles []game.Puzzle, defaultProvider string) (Selection, error) {
	if len(puzzles) == 0 {
		return Selection{}, errors.New("tui: no puzzles to choose from")
	}

	p := tea.NewProgram(newLauncher(puzzles, defaultProvider))
	out, err := p.Run()
	if err != nil {
		return Selection{}, fmt.Errorf("failed to run launcher: %w", err)
	}
	m, ok := out.(launcherModel)
	if !ok || m.cancelled || !m.done {
		return Selection{}, ErrCancelled
	}
	return Selection{
		Provider:    m.providers[m.provIndex].name,
		PuzzleIndex: m.puzzIndex,
	}, nil
}
