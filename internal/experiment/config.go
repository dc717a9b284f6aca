package experiment

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/kimmyTSUI/agent-story/internal/record"
)

// Cell values applied to sweep entries that omit them.
const (
	defaultMaxRounds = 20
	defaultRepeats   = 1
)

// Sweep is a declarative experiment file: a list of named experiments
// played back to back.
type Sweep struct {
	// Name labels the sweep in logs and summaries (optional).
	Name string `yaml:"name,omitempty"`
	// Description is free text for the reader (optional).
	Description string `yaml:"description,omitempty"`
	// PuzzleFile overrides the configured puzzle set for this sweep
	// (optional).
	PuzzleFile string `yaml:"puzzle_file,omitempty"`
	// Experiments run in file order.
	Experiments []Experiment `yaml:"experiments"`
}

// Experiment pins every variable of a game: who plays, against which
// backend, on which puzzles, and how often.
type Experiment struct {
	// Name must be unique within the sweep; the runner's filter globs
	// on it.
	Name string `yaml:"name"`
	// Provider is the text generation backend: "openai", "anthropic",
	// "mock", or "smart-mock".
	Provider string `yaml:"provider"`
	// Model overrides the provider's default model (optional).
	Model string `yaml:"model,omitempty"`
	// Players is the turn order.
	Players []Player `yaml:"players"`
	// MaxRounds is the round budget shared by all players (default 20).
	MaxRounds int `yaml:"max_rounds,omitempty"`
	// Puzzles lists zero-based puzzle indexes to play (default [0]).
	Puzzles []int `yaml:"puzzles,omitempty"`
	// Repeats plays every puzzle this many times (default 1).
	Repeats int `yaml:"repeats,omitempty"`
}

// Player describes one participant of an experiment.
type Player struct {
	Name     string `yaml:"name"`
	Strategy string `yaml:"strategy,omitempty"`
}

// playerSpecs converts the sweep's player list to the game's form.
func (e *Experiment) playerSpecs() []record.PlayerSpec {
	specs := make([]record.PlayerSpec, len(e.Players))
	for i, p := range e.Players {
		specs[i] = record.PlayerSpec{Name: p.Name, Strategy: p.Strategy}
	}
	return specs
}

// games returns how many games this experiment plays.
func (e *Experiment) games() int {
	return len(e.Puzzles) * e.Repeats
}

// LoadSweep reads and validates a sweep definition from a YAML file.
func LoadSweep(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sweep file: %w", err)
	}

	var s Sweep
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse sweep file %s: %w", path, err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep file %s: %w", path, err)
	}
	return &s, nil
}

func (s *Sweep) applyDefaults() {
	for i := range s.Experiments {
		e := &s.Experiments[i]
		if e.MaxRounds == 0 {
			e.MaxRounds = defaultMaxRounds
		}
		if e.Repeats == 0 {
			e.Repeats = defaultRepeats
		}
		if len(e.Puzzles) == 0 {
			e.Puzzles = []int{0}
		}
	}
}

// Validate checks that the sweep is well-formed. It does not check
// puzzle indexes against a puzzle set; the runner does that once the
// set is known.
func (s *Sweep) Validate() error {
	if len(s.Experiments) == 0 {
		return errors.New("sweep defines no experiments")
	}

	seen := make(map[string]bool)
	for i := range s.Experiments {
		e := &s.Experiments[i]
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("experiment %d has no name", i+1)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate experiment name %q", e.Name)
		}
		seen[e.Name] = true

		if strings.TrimSpace(e.Provider) == "" {
			return fmt.Errorf("experiment %q has no provider", e.Name)
		}
		if len(e.Players) == 0 {
			return fmt.Errorf("experiment %q has no players", e.Name)
		}
		names := make(map[string]bool)
		for _, p := range e.Players {
			if strings.TrimSpace(p.Name) == "" {
				return fmt.Errorf("experiment %q has a player without a name", e.Name)
			}
			if names[p.Name] {
				return fmt.Errorf("experiment %q has duplicate player %q", e.Name, p.Name)
			}
			names[p.Name] = true
		}
		if e.MaxRounds <= 0 {
			return fmt.Errorf("experiment %q has non-positive max rounds %d", e.Name, e.MaxRounds)
		}
		if e.Repeats <= 0 {
			return fmt.Errorf("experiment %q has non-positive repeats %d", e.Name, e.Repeats)
		}
		for _, idx := range e.Puzzles {
			if idx < 0 {
				return fmt.Errorf("experiment %q has negative puzzle index %d", e.Name, idx)
			}
		}
	}
	return nil
}

// Filter returns the experiments whose names match the glob pattern, in
// file order. An empty pattern matches everything.
func (s *Sweep) Filter(pattern string) ([]Experiment, error) {
	if pattern == "" {
		return s.Experiments, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile experiment filter %q: %w", pattern, err)
	}
	var matched []Experiment
	for _, e := range s.Experiments {
		if g.Match(e.Name) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}
