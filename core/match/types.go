// Package match implements the three-stage lyric matching strategy and
// its result model. For each input unit the strategy tries, in strict
// priority order, an exact surface match, an exact reading match, and a
// per-mora combination match; the first stage that succeeds decides the
// result. The strategy is deliberately greedy: it never compares
// alternative combinations, and ties among equally valid candidates are
// broken purely by lookup order. That keeps every decision traceable to
// specific source tokens at a predictable cost.
package match

import (
	"time"
)

// Type classifies how an input unit was matched, in descending priority:
// ExactSurface > ExactReading > MoraCombination > NoMatch.
type Type string

const (
	// ExactSurface means a corpus token's surface equals the input
	// surface exactly (case- and width-sensitive).
	ExactSurface Type = "exact_surface"
	// ExactReading means a corpus token's normalized reading equals the
	// input's normalized reading exactly.
	ExactReading Type = "exact_reading"
	// MoraCombination means every mora of the input reading was located
	// somewhere in the corpus, each with its own source token.
	MoraCombination Type = "mora_combination"
	// NoMatch means no stage succeeded (or the mora stage was skipped
	// by the length bound).
	NoMatch Type = "no_match"
)

// Valid reports whether t is one of the four match types.
func (t Type) Valid() bool {
	switch t {
	case ExactSurface, ExactReading, MoraCombination, NoMatch:
		return true
	}
	return false
}

// MoraDetail records which source token supplied one mora of a
// mora-combination match. MoraIndex is the position of the mora within
// the source token's own mora sequence.
type MoraDetail struct {
	Mora          string `json:"mora"`
	SourceTokenID string `json:"source_token_id"`
	MoraIndex     int    `json:"mora_index"`
}

// Unit is one tokenized input unit to be matched. Reading may be raw
// tokenizer output; the strategy normalizes it.
type Unit struct {
	Surface string
	Reading string
}

// Result is the outcome for a single input unit. MatchedTokenIDs is
// populated for the exact match types and references source tokens by id
// only; MoraDetails is populated only for MoraCombination. Results never
// embed token text — resolving ids back to full token records is the
// query side's job, so the token store stays the single source of truth.
type Result struct {
	InputSurface    string       `json:"input_surface"`
	InputReading    string       `json:"input_reading"`
	Type            Type         `json:"match_type"`
	MatchedTokenIDs []string     `json:"matched_token_ids,omitempty"`
	MoraDetails     []MoraDetail `json:"mora_details,omitempty"`
}

// Run is one matcher execution against one corpus: the input text, the
// exact configuration used, and the ordered per-unit results. A run is
// assembled once, persisted atomically, and never modified afterward.
type Run struct {
	ID        string
	CorpusID  string
	Timestamp time.Time
	InputText string
	Config    Config
	Results   []Result
}
