// Package tokenize adapts the kagome morphological analyzer to the
// matcher's input model. It is the production implementation of the
// external tokenizer boundary: raw text in, position-tagged units out.
package tokenize

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Unit is one morphological unit of an input text. Reading is raw
// tokenizer output (katakana for dictionary words, the surface itself
// when the dictionary has no reading); downstream code normalizes it.
type Unit struct {
	Surface    string
	Reading    string
	Lemma      string
	POS        string
	LineIndex  int
	TokenIndex int
}

// Tokenizer wraps a kagome tokenizer with the IPA dictionary.
// It is safe for concurrent use.
type Tokenizer struct {
	kg *tokenizer.Tokenizer
}

// New builds a Tokenizer backed by the bundled IPA dictionary.
func New() (*Tokenizer, error) {
	kg, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("initializing kagome: %w", err)
	}
	return &Tokenizer{kg: kg}, nil
}

// Tokenize analyzes text line by line so every unit carries its line and
// in-line token position. Whitespace-only tokens are skipped; token
// indexes count only emitted units.
func (t *Tokenizer) Tokenize(text string) []Unit {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var units []Unit
	for lineIndex, line := range strings.Split(text, "\n") {
		tokenIndex := 0
		for _, kt := range t.kg.Tokenize(line) {
			surface := kt.Surface
			if strings.TrimSpace(surface) == "" {
				continue
			}
			units = append(units, Unit{
				Surface:    surface,
				Reading:    readingOf(kt),
				Lemma:      lemmaOf(kt),
				POS:        strings.Join(kt.POS(), ","),
				LineIndex:  lineIndex,
				TokenIndex: tokenIndex,
			})
			tokenIndex++
		}
	}
	return units
}

// readingOf falls back to the surface when the dictionary has no reading
// (unknown words, latin, numbers).
func readingOf(kt tokenizer.Token) string {
	if r, ok := kt.Reading(); ok && r != "" && r != "*" {
		return r
	}
	return kt.Surface
}

func lemmaOf(kt tokenizer.Token) string {
	if l, ok := kt.BaseForm(); ok && l != "" && l != "*" {
		return l
	}
	return kt.Surface
}
