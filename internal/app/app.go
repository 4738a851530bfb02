// Package app implements the application use cases that wire the
// tokenizer, the matching strategy and the storage ports together:
// registering lyrics, matching input text and querying run results.
// Each use case depends on small consumer-defined interfaces so the
// SQLite store and the in-memory store are interchangeable behind it.
package app

import (
	"strings"

	"github.com/google/uuid"

	"github.com/uta-tools/lyricmatch/internal/tokenize"
)

// Tokenizer is the external morphological analyzer boundary.
type Tokenizer interface {
	Tokenize(text string) []tokenize.Unit
}

// newID builds an id like "corpus_3f2a9c81d04b": a fixed prefix plus the
// first 12 hex digits of a fresh UUID.
func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
