package game

import (
	"fmt"
	"strings"

	"github.com/kimmyTSUI/agent-story/internal/record"
)

// Strategy names with a dedicated questioning guide. Anything else
// falls back to the systematic guide.
const (
	StrategySystematic = "systematic"
	StrategyCreative   = "creative"
)

// The prompt wording below is matched by keyword in the offline mock
// generators; change the two together.

const oracleSystemTemplate = `你是一个海龟汤游戏的主持人。你知道完整的故事真相。

**汤面（谜题）：**
%s

**汤底（真相）：**
%s

**你的职责：**
1. 对玩家的提问，只能回答"是"、"否"或"不相关"
2. 如果问题与真相相符，回答"是"
3. 如果问题与真相不符，回答"否"
4. 如果问题对解开谜题不相关，回答"不相关"
5. 不要透露任何超出是非回答的信息
6. 保持神秘感，让玩家自己推理

**回答格式：**
只需回答：是/否/不相关

**示例：**
玩家："这个人真的死了吗？"
主持人："否。"

玩家："天气与此有关吗？"
主持人："不相关。"
`

const reasonerSystemTemplate = `你是海龟汤游戏的玩家%s。你需要通过提出是非问题来解开谜题。

**汤面（已知信息）：**
%s

**游戏规则：**
1. 你只能提出可以用"是"、"否"或"不相关"回答的问题
2. 根据主持人的回答逐步推理出完整故事
3. 当你认为已经了解真相时，可以说出你的推理

**你的策略：**
%s

**注意：**
- 每次只提一个问题
- 基于之前的对话历史进行推理
- 问题要具体且有针对性
- 避免重复已经确认的信息

**回答格式：**
[提问] 你的问题
或
[推理] 你认为的完整故事
`

var strategyGuides = map[string]string{
	StrategySystematic: `你应该采用系统化的提问策略：
1. 先确认基本事实（人物、地点、时间）
2. 排除明显的可能性
3. 逐步缩小范围
4. 关注异常点和矛盾之处`,
	StrategyCreative: `你应该采用创造性的提问策略：
1. 大胆假设，从不同角度思考
2. 关注细节和隐藏信息
3. 尝试反常识的可能性
4. 寻找故事中的关键转折点`,
}

// StrategyGuide returns the questioning guide for a strategy name.
// Unknown names get the systematic guide.
func StrategyGuide(strategy string) string {
	if guide, ok := strategyGuides[strategy]; ok {
		return guide
	}
	return strategyGuides[StrategySystematic]
}

// OracleSystemPrompt renders the host's system prompt for a puzzle.
// It is the only prompt that reveals the bottom.
func OracleSystemPrompt(p Puzzle) string {
	return fmt.Sprintf(oracleSystemTemplate, p.Surface, p.Bottom)
}

// OracleAnswerPrompt asks the host to answer one player question.
func OracleAnswerPrompt(question string) string {
	return fmt.Sprintf(`基于你掌握的故事真相，请回答玩家的问题。

玩家问题：%s

请只回答"是"、"否"或"不相关"。`, question)
}

// OracleJudgePrompt asks the host to verify a player's story guess.
func OracleJudgePrompt(guess string) string {
	return fmt.Sprintf(`基于你掌握的故事真相，请判断玩家的推理是否与真相一致。

玩家推理：%s

请只回答"是"或"否"。`, guess)
}

// ReasonerSystemPrompt renders a player's system prompt. Players only
// ever see the surface.
func ReasonerSystemPrompt(name, strategy, surface string) string {
	return fmt.Sprintf(reasonerSystemTemplate, name, surface, StrategyGuide(strategy))
}

// RenderHistory flattens played rounds, guesses included, into the
// transcript block the player prompts embed.
func RenderHistory(rounds []record.Round) string {
	lines := make([]string, 0, len(rounds))
	for _, r := range rounds {
		lines = append(lines, fmt.Sprintf("%s: %s\n主持人: %s", r.Player, r.Question, r.Answer))
	}
	return strings.Join(lines, "\n")
}

// ReasonerTurnPrompt asks a player for their next question or guess.
func ReasonerTurnPrompt(name string, rounds []record.Round) string {
	history := RenderHistory(rounds)
	if history == "" {
		history = "（还没有提问记录）"
	}
	return fmt.Sprintf(`**对话历史：**
%s

现在轮到你%s了。请根据汤面和对话历史，提出你的下一个问题或给出你的推理。

格式：
[提问] 你的问题
或
[推理] 你的完整推理
`, history, name)
}

// ReasonerFinalPrompt demands a player's closing account of the full
// story. Unlike the turn prompt it embeds the history as is, even when
// empty.
func ReasonerFinalPrompt(rounds []record.Round) string {
	return fmt.Sprintf(`**对话历史：**
%s

现在请你给出最终推理，说出你认为的完整故事真相。请尽可能详细和完整。

[最终推理]
`, RenderHistory(rounds))
}
