package config

import (
	"testing"

	"github.com/uta-tools/lyricmatch/core/match"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"LYRICMATCH_DB", "LYRICMATCH_MAX_MORA_LENGTH", "LYRICMATCH_LOG_LEVEL", "LYRICMATCH_LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("DBPath = %q; want %q", cfg.DBPath, DefaultDBPath)
	}
	if cfg.MaxMoraLength != match.DefaultMaxMoraLength {
		t.Errorf("MaxMoraLength = %d; want %d", cfg.MaxMoraLength, match.DefaultMaxMoraLength)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("log defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LYRICMATCH_DB", "/tmp/x.db")
	t.Setenv("LYRICMATCH_MAX_MORA_LENGTH", "9")
	t.Setenv("LYRICMATCH_LOG_LEVEL", "debug")
	t.Setenv("LYRICMATCH_LOG_FORMAT", "json")

	cfg := Load()
	if cfg.DBPath != "/tmp/x.db" || cfg.MaxMoraLength != 9 || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("Load = %+v", cfg)
	}
}

func TestLoad_IgnoresBadBound(t *testing.T) {
	t.Setenv("LYRICMATCH_MAX_MORA_LENGTH", "-4")
	if cfg := Load(); cfg.MaxMoraLength != match.DefaultMaxMoraLength {
		t.Errorf("MaxMoraLength = %d; want default for invalid env value", cfg.MaxMoraLength)
	}
	t.Setenv("LYRICMATCH_MAX_MORA_LENGTH", "abc")
	if cfg := Load(); cfg.MaxMoraLength != match.DefaultMaxMoraLength {
		t.Errorf("MaxMoraLength = %d; want default for unparseable env value", cfg.MaxMoraLength)
	}
}
