package eval

import (
	"regexp"
	"strconv"

	"github.com/kimmyTSUI/agent-story/internal/record"
)

// scoreSchema drives rubric parsing declaratively: one entry per
// scored line, each with its extraction pattern and its slot in the
// Scores struct. Adding a dimension means adding a row here.
var scoreSchema = []struct {
	pattern *regexp.Regexp
	assign  func(*record.Scores, int)
}{
	{regexp.MustCompile(`核心情节[：:]\s*(\d+)/10`), func(s *record.Scores, v int) { s.CorePlot = v }},
	{regexp.MustCompile(`关键细节[：:]\s*(\d+)/10`), func(s *record.Scores, v int) { s.KeyDetails = v }},
	{regexp.MustCompile(`逻辑推理[：:]\s*(\d+)/10`), func(s *record.Scores, v int) { s.LogicalReasoning = v }},
	{regexp.MustCompile(`整体完整度[：:]\s*(\d+)/10`), func(s *record.Scores, v int) { s.Completeness = v }},
	{regexp.MustCompile(`总体评分[：:]\s*(\d+)/100`), func(s *record.Scores, v int) { s.Total = v }},
}

// ParseScores extracts the rubric numbers from a scoring reply. Lines
// that do not match, or a reply with no rubric at all, leave the
// corresponding scores at zero; malformed output is never an error.
func ParseScores(response string) record.Scores {
	var scores record.Scores
	for _, field := range scoreSchema {
		m := field.pattern.FindStringSubmatch(response)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		field.assign(&scores, v)
	}
	return scores
}
