package app

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	apperrors "github.com/uta-tools/lyricmatch/core/errors"
	"github.com/uta-tools/lyricmatch/core/lyrics"
	"github.com/uta-tools/lyricmatch/core/reading"
	"github.com/uta-tools/lyricmatch/internal/logging"
)

// CorpusWriter is the registration-side corpus persistence.
type CorpusWriter interface {
	SaveCorpus(ctx context.Context, c *lyrics.Corpus) error
	FindByHash(ctx context.Context, contentHash string) (*lyrics.Corpus, error)
}

// TokenWriter stores tokens in bulk during registration.
type TokenWriter interface {
	SaveTokens(ctx context.Context, tokens []lyrics.Token) error
}

// Registrar registers lyric text as a new corpus: hash, dedup, tokenize,
// bulk-save. Tokens exist only from this path; nothing ever mutates them
// afterward.
type Registrar struct {
	Corpora   CorpusWriter
	Tokens    TokenWriter
	Tokenizer Tokenizer
}

// Register stores text as a corpus and returns its id. Registering text
// whose content hash already exists returns the existing corpus id with
// created=false instead of writing anything.
func (r *Registrar) Register(ctx context.Context, text, title string) (corpusID string, created bool, err error) {
	if text == "" {
		return "", false, apperrors.NewValidation("text", "lyrics text is empty")
	}

	sum := blake3.Sum256([]byte(text))
	contentHash := hex.EncodeToString(sum[:])

	existing, err := r.Corpora.FindByHash(ctx, contentHash)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		logging.Info("corpus already registered", "corpus_id", existing.ID, "content_hash", contentHash)
		return existing.ID, false, nil
	}

	units := r.Tokenizer.Tokenize(text)
	if len(units) == 0 {
		return "", false, apperrors.NewValidation("text", "no tokens produced from lyrics text")
	}

	corpusID = newID("corpus")
	corpus := &lyrics.Corpus{
		ID:          corpusID,
		ContentHash: contentHash,
		Title:       title,
		CreatedAt:   time.Now(),
	}
	if err := r.Corpora.SaveCorpus(ctx, corpus); err != nil {
		return "", false, err
	}

	tokens := make([]lyrics.Token, 0, len(units))
	for _, u := range units {
		tokens = append(tokens, lyrics.Token{
			CorpusID:   corpusID,
			Surface:    u.Surface,
			Reading:    reading.New(u.Reading),
			Lemma:      u.Lemma,
			POS:        u.POS,
			LineIndex:  u.LineIndex,
			TokenIndex: u.TokenIndex,
		})
	}
	if err := r.Tokens.SaveTokens(ctx, tokens); err != nil {
		return "", false, err
	}
	logging.Info("corpus registered", "corpus_id", corpusID, "tokens", len(tokens))
	return corpusID, true, nil
}
