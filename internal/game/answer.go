package game

import "strings"

// Answer is a canonical host verdict.
type Answer string

// The three answers a host can give.
const (
	AnswerYes        Answer = "是"
	AnswerNo         Answer = "否"
	AnswerIrrelevant Answer = "不相关"
)

// Normalize maps a raw model reply onto the canonical ternary answer.
// The priority is fixed: irrelevance markers are checked first, then
// "是" (or "yes"), then "否" (or "no"), and anything unrecognized
// counts as irrelevant. Matching is substring based, so a reply like
// "不是。" normalizes to AnswerYes.
func Normalize(raw string) Answer {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return AnswerIrrelevant
	}
	lower := strings.ToLower(cleaned)
	switch {
	case strings.Contains(cleaned, "不相关"),
		strings.Contains(cleaned, "无关"),
		strings.Contains(cleaned, "不重要"):
		return AnswerIrrelevant
	case strings.Contains(cleaned, "是"), strings.Contains(lower, "yes"):
		return AnswerYes
	case strings.Contains(cleaned, "否"), strings.Contains(lower, "no"):
		return AnswerNo
	default:
		return AnswerIrrelevant
	}
}
