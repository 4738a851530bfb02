// Package config loads process configuration from the environment.
// Every setting uses the LYRICMATCH_ prefix; command-line flags take
// precedence over the environment. Matching parameters are only defaults
// here — the value actually used by a run is always passed explicitly
// and captured on the run record.
package config

import (
	"os"
	"strconv"

	"github.com/uta-tools/lyricmatch/core/match"
)

// Defaults.
const (
	DefaultDBPath    = "lyricmatch.db"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the process-wide settings.
type Config struct {
	// DBPath is the SQLite database file path (LYRICMATCH_DB).
	DBPath string
	// MaxMoraLength is the default mora-combination bound
	// (LYRICMATCH_MAX_MORA_LENGTH).
	MaxMoraLength int
	// LogLevel is the log level name (LYRICMATCH_LOG_LEVEL).
	LogLevel string
	// LogFormat is "text" or "json" (LYRICMATCH_LOG_FORMAT).
	LogFormat string
}

// Load reads configuration from the environment, falling back to
// defaults for anything unset or unparseable.
func Load() Config {
	cfg := Config{
		DBPath:        DefaultDBPath,
		MaxMoraLength: match.DefaultMaxMoraLength,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
	if v := os.Getenv("LYRICMATCH_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LYRICMATCH_MAX_MORA_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxMoraLength = n
		}
	}
	if v := os.Getenv("LYRICMATCH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LYRICMATCH_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return cfg
}
