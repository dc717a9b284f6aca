package textgen

import (
	"context"
	"fmt"
	"strings"
)

// Scripted replays a fixed response sequence, cycling when exhausted.
// Each instance keeps its own cursor, so two Scripted generators never
// interfere with each other.
type Scripted struct {
	responses []string
	cursor    int
}

// NewScripted creates a generator that returns the given responses in
// order, wrapping around at the end.
func NewScripted(responses ...string) *Scripted {
	return &Scripted{responses: responses}
}

// Generate returns the next scripted response. It fails if the script
// is empty.
func (s *Scripted) Generate(_ context.Context, _, _ string) (string, error) {
	if len(s.responses) == 0 {
		return "", fmt.Errorf("textgen: scripted generator has no responses")
	}
	resp := s.responses[s.cursor%len(s.responses)]
	s.cursor++
	return resp, nil
}

// Calls returns how many responses the generator has handed out.
func (s *Scripted) Calls() int { return s.cursor }

// Mock emulates every agent role offline with short canned cycles. It
// routes on role markers in the system prompt: the host cycle answers
// questions, the player cycle asks them, and evaluator calls get a
// parseable rubric block. Useful for exercising the full pipeline
// without touching a real API.
type Mock struct {
	host       *Scripted
	questions  *Scripted
	finalGuess string
	rubric     string
}

// NewMock creates a Mock with its default scripts.
func NewMock() *Mock {
	return &Mock{
		host: NewScripted("是。", "否。", "不重要。"),
		questions: NewScripted(
			"[提问] 这个人真的死了吗？",
			"[提问] 他是故意假死的吗？",
			"[提问] 他去了一个偏远的地方吗？",
			"[提问] 他有什么目的吗？",
		),
		finalGuess: "[最终推理] 这个人假装自己死了，实际上逃到了一个偏远的岛屿，后来给家人寄了一封信。",
		rubric:     "核心情节：7/10\n关键细节：6/10\n逻辑推理：8/10\n整体完整度：7/10\n总体评分：70/100",
	}
}

// Generate routes to a role script. The marker checks are compound:
// player prompts mention the host and evaluator prompts mention the
// players, so the host branch also keys on the truth preamble in the
// user prompt and the evaluator branch runs before the player branch.
func (m *Mock) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	switch {
	case strings.Contains(systemPrompt, "主持人") && strings.Contains(userPrompt, "基于你掌握的故事真相"):
		return m.host.Generate(ctx, systemPrompt, userPrompt)
	case strings.Contains(systemPrompt, "评估专家"):
		if strings.Contains(userPrompt, "覆盖") {
			return "是", nil
		}
		return m.rubric, nil
	case strings.Contains(systemPrompt, "玩家"):
		if strings.Contains(userPrompt, "最终推理") {
			return m.finalGuess, nil
		}
		return m.questions.Generate(ctx, systemPrompt, userPrompt)
	default:
		return "Mock响应", nil
	}
}

// strategyScript walks a question list once and then sticks on the
// final guess.
type strategyScript struct {
	questions []string
	final     string
	cursor    int
}

func (s *strategyScript) next() string {
	if s.cursor < len(s.questions) {
		q := s.questions[s.cursor]
		s.cursor++
		return q
	}
	return s.final
}

// keywordResponse maps trigger keywords (Chinese matched as-is, English
// matched lowercase) to a canned answer.
type keywordResponse struct {
	keywords []string
	answer   string
}

func matchKeyword(prompt string, table []keywordResponse) (string, bool) {
	lower := strings.ToLower(prompt)
	for _, kr := range table {
		for _, kw := range kr.keywords {
			if strings.Contains(prompt, kw) || strings.Contains(lower, kw) {
				return kr.answer, true
			}
		}
	}
	return "", false
}

var smartHostAnswers = []keywordResponse{
	{[]string{"真的死了吗", "really dead"}, "否。他没有真的死。"},
	{[]string{"假死", "fake"}, "是。他是故意假死的。"},
	{[]string{"非法", "犯罪", "illegal"}, "是。他涉及了非法活动。"},
	{[]string{"偏远", "岛", "island"}, "是。他去了一个偏远的岛屿。"},
	{[]string{"生存技能", "survival"}, "是。他有生存技能。"},
	{[]string{"逃避", "escape"}, "是。他在逃避追捕。"},
	{[]string{"家人", "family"}, "是。他后来联系了家人。"},
	{[]string{"秘密", "secret"}, "是。这需要保密。"},
}

var smartCoverageAnswers = []keywordResponse{
	{[]string{"假死", "fake"}, "是\n玩家的问题中提到了'他是故意假死的吗'，这覆盖了该关键问题。"},
	{[]string{"非法", "illegal"}, "是\n玩家问到了'他涉及非法活动吗'，覆盖了这个关键点。"},
	{[]string{"岛", "island"}, "是\n玩家询问了'他去了一个偏远的地方吗'，涉及了岛屿这个关键信息。"},
	{[]string{"生存", "survival"}, "是\n玩家提到了'他有特殊的生存技能吗'，覆盖了这一点。"},
}

const smartRubric = `核心情节：8/10 - 玩家准确识别了假死逃亡的核心情节
关键细节：7/10 - 提到了非法活动、偏远岛屿等关键细节
逻辑推理：8/10 - 推理过程符合逻辑，从假死推导到逃避追捕
整体完整度：7/10 - 基本完整，但缺少一些具体细节如帮助者等
总体评分：75/100`

// SmartMock plays a coherent offline game about one fixed story: a man
// fakes his death to escape trouble, hides on a remote island, and later
// writes to his family. The host answers by question keywords and the
// players follow per-strategy question scripts, so an entire game plus
// its evaluation runs deterministically without a real model.
type SmartMock struct {
	scripts map[string]*strategyScript
}

// NewSmartMock creates a SmartMock with fresh per-strategy scripts.
func NewSmartMock() *SmartMock {
	return &SmartMock{
		scripts: map[string]*strategyScript{
			"systematic": {
				questions: []string{
					"[提问] 这个人真的死了吗？",
					"[提问] 他是故意假死的吗？",
					"[提问] 他这样做是为了逃避某些麻烦吗？",
					"[提问] 他去了一个偏远的地方吗？",
				},
				final: "[最终推理] 我认为这个人为了逃避某些危险（可能是犯罪组织或法律问题），故意假装自己死了，然后躲到了一个偏远的岛屿，后来给家人寄信报平安。",
			},
			"creative": {
				questions: []string{
					"[提问] 信是在他被宣布死亡之后寄出的吗？",
					"[提问] 他和家人之间有什么秘密吗？",
					"[提问] 他涉及非法活动吗？",
					"[提问] 他有特殊的生存技能吗？",
				},
				final: "[最终推理] 这个人可能因为卷入非法活动而被追杀，他利用自己的生存技能精心策划了假死，逃到了一个偏远岛屿。他在那里安顿下来后，给家人写信告诉他们真相，但要求保密。",
			},
		},
	}
}

// Generate routes by role. The evaluator marker is checked before the
// player marker because evaluator prompts mention players too.
func (m *SmartMock) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	switch {
	case strings.Contains(systemPrompt, "主持人") && strings.Contains(userPrompt, "基于你掌握的故事真相"):
		if answer, ok := matchKeyword(userPrompt, smartHostAnswers); ok {
			return answer, nil
		}
		return "不重要。这个细节对解谜不太重要。", nil

	case strings.Contains(systemPrompt, "评估专家"):
		if strings.Contains(userPrompt, "覆盖") || strings.Contains(strings.ToLower(userPrompt), "coverage") {
			if answer, ok := matchKeyword(userPrompt, smartCoverageAnswers); ok {
				return answer, nil
			}
			return "否\n玩家的问题中没有明确涉及这个关键点。", nil
		}
		return smartRubric, nil

	case strings.Contains(systemPrompt, "玩家"):
		script := m.scripts[m.detectStrategy(systemPrompt)]
		if strings.Contains(userPrompt, "最终推理") {
			return script.final, nil
		}
		return script.next(), nil

	default:
		return "Mock响应", nil
	}
}

// detectStrategy picks a question script from the player's system
// prompt, keying on the strategy guide text so it works for any player
// name, with the classic demo names kept as fallbacks.
func (m *SmartMock) detectStrategy(systemPrompt string) string {
	lower := strings.ToLower(systemPrompt)
	switch {
	case strings.Contains(systemPrompt, "创造性的提问策略"),
		strings.Contains(systemPrompt, "创意派"),
		strings.Contains(systemPrompt, "直觉派"),
		strings.Contains(lower, "creative"):
		return "creative"
	default:
		return "systematic"
	}
}
