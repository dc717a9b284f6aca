package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "game.max_rounds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all
// validation errors found.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateGame()...)
	errors = append(errors, c.validatePuzzles()...)
	errors = append(errors, c.validateRecords()...)
	errors = append(errors, c.validateArchive()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateGame validates the GameConfig.
func (c *Config) validateGame() []ValidationError {
	var errors []ValidationError

	if c.Game.MaxRounds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "game.max_rounds",
			Value:   c.Game.MaxRounds,
			Message: "must be positive",
		})
	}

	if len(c.Game.Players) == 0 {
		errors = append(errors, ValidationError{
			Field:   "game.players",
			Value:   c.Game.Players,
			Message: "at least one player is required",
		})
	}

	seen := make(map[string]bool)
	for i, p := range c.Game.Players {
		fieldName := fmt.Sprintf("game.players[%d].name", i)

		if strings.TrimSpace(p.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Value:   p.Name,
				Message: "player name cannot be empty",
			})
			continue
		}
		if seen[p.Name] {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Value:   p.Name,
				Message: "duplicate player name",
			})
		}
		seen[p.Name] = true
	}

	return errors
}

// validatePuzzles validates the PuzzlesConfig.
func (c *Config) validatePuzzles() []ValidationError {
	var errors []ValidationError

	if c.Puzzles.Index < 0 {
		errors = append(errors, ValidationError{
			Field:   "puzzles.index",
			Value:   c.Puzzles.Index,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateRecords validates the RecordsConfig.
func (c *Config) validateRecords() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Records.Dir) == "" {
		errors = append(errors, ValidationError{
			Field:   "records.dir",
			Value:   c.Records.Dir,
			Message: "cannot be empty",
		})
	}

	return errors
}

// validateArchive validates the ArchiveConfig.
func (c *Config) validateArchive() []ValidationError {
	var errors []ValidationError

	if c.Archive.Enabled && strings.TrimSpace(c.Archive.Addr) == "" {
		errors = append(errors, ValidationError{
			Field:   "archive.addr",
			Value:   c.Archive.Addr,
			Message: "cannot be empty when archive is enabled",
		})
	}
	if c.Archive.DB < 0 {
		errors = append(errors, ValidationError{
			Field:   "archive.db",
			Value:   c.Archive.DB,
			Message: "must be non-negative",
		})
	}
	if c.Archive.TTLHours < 0 {
		errors = append(errors, ValidationError{
			Field:   "archive.ttl_hours",
			Value:   c.Archive.TTLHours,
			Message: "must be non-negative (0 keeps records forever)",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig.
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
