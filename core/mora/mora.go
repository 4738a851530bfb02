// Package mora segments katakana text into morae, the timed phonetic
// units of Japanese. A mora is roughly one kana symbol, optionally
// combined with a small glide kana and a prolonged-sound mark:
// "トウキョウ" segments into ト・ウ・キョ・ウ.
package mora

import "strings"

// Mora is a single phonetic unit of a katakana string, e.g. "ト" or "キョ".
// Morae are immutable and produced only by Segment, which guarantees that
// concatenating the segmented morae reproduces the input exactly.
type Mora struct {
	value string
}

// Value returns the katakana text of the mora (one or two base characters,
// possibly followed by "ー").
func (m Mora) Value() string { return m.value }

// String implements fmt.Stringer.
func (m Mora) String() string { return m.value }

const (
	sokuon  = 'ッ' // geminate marker, always its own mora
	hatsuon = 'ン' // moraic nasal, always its own mora
	choonpu = 'ー' // prolonged-sound mark, attaches to the preceding mora
)

// isGlide reports whether r is a small kana that merges into the
// preceding syllable (キ+ャ → キャ, フ+ァ → ファ).
func isGlide(r rune) bool {
	switch r {
	case 'ャ', 'ュ', 'ョ', 'ァ', 'ィ', 'ゥ', 'ェ', 'ォ':
		return true
	}
	return false
}

// isSyllable reports whether r is a full katakana syllable character that
// can head a mora. Small kana, ッ and ン are handled separately.
func isSyllable(r rune) bool {
	if r < 'ァ' || r > 'ヶ' {
		return false
	}
	if isGlide(r) || r == sokuon || r == hatsuon {
		return false
	}
	switch r {
	case 'ヮ', 'ヵ', 'ヶ':
		// ヮ never heads a mora; ヵ and ヶ do.
		return r != 'ヮ'
	}
	return true
}

// Segment splits a katakana string into morae with a single left-to-right
// longest-match scan. At each position it takes, in order of precedence:
// a syllable character plus an optional glide plus an optional "ー" (one
// mora), a standalone "ッ" or "ン" (one mora), or any other single
// character (one mora). The fallback keeps the scan total: every input
// rune lands in exactly one mora, so no text is ever dropped.
func Segment(katakana string) []Mora {
	if katakana == "" {
		return nil
	}
	runes := []rune(katakana)
	morae := make([]Mora, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == sokuon || r == hatsuon {
			morae = append(morae, Mora{value: string(r)})
			continue
		}
		if !isSyllable(r) {
			morae = append(morae, Mora{value: string(r)})
			continue
		}
		j := i + 1
		if j < len(runes) && isGlide(runes[j]) {
			j++
		}
		if j < len(runes) && runes[j] == choonpu {
			j++
		}
		morae = append(morae, Mora{value: string(runes[i:j])})
		i = j - 1
	}
	return morae
}

// Join concatenates the values of morae. For any segmented string s,
// Join(Segment(s)) == s.
func Join(morae []Mora) string {
	var b strings.Builder
	for _, m := range morae {
		b.WriteString(m.value)
	}
	return b.String()
}

// Values returns the string values of morae in order.
func Values(morae []Mora) []string {
	if len(morae) == 0 {
		return nil
	}
	vals := make([]string, len(morae))
	for i, m := range morae {
		vals[i] = m.value
	}
	return vals
}
