package match

import (
	"fmt"

	apperrors "github.com/uta-tools/lyricmatch/core/errors"
)

// DefaultMaxMoraLength bounds the mora-combination stage when the caller
// does not configure one.
const DefaultMaxMoraLength = 5

// Config carries the matching parameters for one run. The value is
// captured verbatim on the Run so results stay reproducible; it is always
// passed explicitly, never read from ambient state.
type Config struct {
	// MaxMoraLength is the largest input mora count for which the
	// mora-combination stage is attempted. Units with more morae skip
	// the stage entirely and fall through to NoMatch.
	MaxMoraLength int `json:"max_mora_length"`
}

// DefaultConfig returns the default matching configuration.
func DefaultConfig() Config {
	return Config{MaxMoraLength: DefaultMaxMoraLength}
}

// Validate rejects unusable configurations. A run must fail before any
// unit is evaluated rather than silently skip the mora stage everywhere.
func (c Config) Validate() error {
	if c.MaxMoraLength <= 0 {
		return &apperrors.ValidationError{
			Field:   "max_mora_length",
			Value:   fmt.Sprintf("%d", c.MaxMoraLength),
			Message: "must be positive",
		}
	}
	return nil
}
