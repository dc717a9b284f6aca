package game

import (
	"encoding/json"
	"fmt"
	"os"
)

// Puzzle is one turtle-soup riddle: the surface shown to players, the
// bottom known only to the host, and the key questions a solver should
// touch on the way to the truth. The on-disk field for the latter is
// "key_question", singular, matching the puzzle corpus this repo
// consumes. StoryTree is carried opaquely for corpora that include it.
type Puzzle struct {
	Index        int             `json:"index"`
	Surface      string          `json:"surface"`
	Bottom       string          `json:"bottom"`
	KeyQuestions []string        `json:"key_question"`
	StoryTree    json.RawMessage `json:"story_tree,omitempty"`
}

// LoadPuzzles reads a JSON array of puzzles from path.
func LoadPuzzles(path string) ([]Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle file: %w", err)
	}
	var puzzles []Puzzle
	if err := json.Unmarshal(data, &puzzles); err != nil {
		return nil, fmt.Errorf("failed to parse puzzle file %s: %w", path, err)
	}
	return puzzles, nil
}

// PuzzleAt selects a puzzle by position with a range check.
func PuzzleAt(puzzles []Puzzle, index int) (Puzzle, error) {
	if index < 0 || index >= len(puzzles) {
		return Puzzle{}, fmt.Errorf("puzzle index %d out of range (have %d puzzles)", index, len(puzzles))
	}
	return puzzles[index], nil
}

// DefaultPuzzles returns the built-in riddles used when no puzzle file
// is configured.
func DefaultPuzzles() []Puzzle {
	return []Puzzle{
		{
			Index:   0,
			Surface: "一个男人在海边被宣布死亡，葬礼也如期举行。一年后，他的家人却收到了一封他亲笔写的信。这是怎么回事？",
			Bottom: "这个男人因为卷入非法活动而被追杀。他利用自己的生存技能精心策划了一场假死，骗过了所有人，" +
				"随后逃到了一个偏远的岛屿。在那里安顿下来之后，他写信告诉家人真相，并要求他们保守秘密。",
			KeyQuestions: []string{
				"他是故意假死的吗？",
				"他涉及非法活动吗？",
				"他逃到了一个偏远的岛屿吗？",
				"他有特殊的生存技能吗？",
			},
		},
		{
			Index:   1,
			Surface: "一个男人走进海边的餐厅，点了一碗海龟汤。他只喝了一口就冲出餐厅，回家后结束了自己的生命。为什么？",
			Bottom: "多年前，这个男人和同伴在海上遇难，漂流到荒岛。同伴端给他一碗汤，说是海龟汤，他喝下后才撑到获救。" +
				"其实那碗汤是用死去同伴的遗体做的。多年后他在餐厅喝到真正的海龟汤，发现味道完全不同，" +
				"明白了当年的真相，悲痛之下选择了自尽。",
			KeyQuestions: []string{
				"他以前喝过海龟汤吗？",
				"当年那碗汤其实不是海龟汤吗？",
				"他的同伴在海难中死去了吗？",
				"他是因为知道了真相而自杀的吗？",
			},
		},
	}
}
