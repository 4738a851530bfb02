// Package lyrics defines the corpus and token entities produced by lyric
// registration. A corpus holds metadata only; its tokens live in the
// token store and are reached by corpus id, never held in memory as a
// whole.
package lyrics

import (
	"fmt"
	"time"

	"github.com/uta-tools/lyricmatch/core/mora"
	"github.com/uta-tools/lyricmatch/core/reading"
)

// TokenID derives the stable identity of a token from its position:
// <corpusID>_<lineIndex>_<tokenIndex>. The id is deterministic and unique
// within a corpus.
func TokenID(corpusID string, lineIndex, tokenIndex int) string {
	return fmt.Sprintf("%s_%d_%d", corpusID, lineIndex, tokenIndex)
}

// Token is one morphological unit occurring at a fixed position inside a
// corpus. Tokens are created in bulk during registration and never
// mutated afterward; they are deleted only when their corpus is deleted.
type Token struct {
	CorpusID   string
	Surface    string
	Reading    reading.Reading
	Lemma      string
	POS        string
	LineIndex  int
	TokenIndex int
}

// ID returns the derived token identity.
func (t Token) ID() string {
	return TokenID(t.CorpusID, t.LineIndex, t.TokenIndex)
}

// Morae returns the mora decomposition of the token's reading.
func (t Token) Morae() []mora.Mora {
	return t.Reading.Morae()
}

// Corpus is the metadata record for a registered body of lyric text.
// ContentHash is the BLAKE3 digest of the raw text and is used to detect
// re-registration of identical lyrics. Fields are set at registration and
// never altered.
type Corpus struct {
	ID          string
	ContentHash string
	Title       string
	CreatedAt   time.Time
}
