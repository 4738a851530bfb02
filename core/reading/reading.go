// Package reading normalizes Japanese reading strings to katakana and
// exposes their mora decomposition. Tokenizers emit readings in hiragana,
// katakana or a mixture; everything downstream compares the normalized
// katakana form.
package reading

import (
	"strings"

	"github.com/uta-tools/lyricmatch/core/mora"
)

// kanaOffset is the code point distance between the hiragana and
// katakana blocks: ぁ (U+3041) + 0x60 = ァ (U+30A1).
const kanaOffset = 0x60

// Normalize maps every hiragana rune to its katakana counterpart.
// Characters outside the hiragana block (katakana, kanji, punctuation,
// latin) pass through unchanged, so the mapping is total and idempotent:
// Normalize(Normalize(s)) == Normalize(s) for all s.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= 'ぁ' && r <= 'ゖ' {
			r += kanaOffset
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Morae returns the mora decomposition of the normalized form of raw.
func Morae(raw string) []mora.Mora {
	return mora.Segment(Normalize(raw))
}

// Reading is the phonetic rendering of a token, distinct from its written
// surface form. It keeps the raw tokenizer output alongside the katakana
// normalization; both are fixed at construction.
type Reading struct {
	raw        string
	normalized string
}

// New builds a Reading from a raw tokenizer reading.
func New(raw string) Reading {
	return Reading{raw: raw, normalized: Normalize(raw)}
}

// Raw returns the reading as the tokenizer produced it.
func (r Reading) Raw() string { return r.raw }

// Normalized returns the fully katakana form of the reading.
func (r Reading) Normalized() string { return r.normalized }

// Morae segments the normalized reading.
func (r Reading) Morae() []mora.Mora { return mora.Segment(r.normalized) }
