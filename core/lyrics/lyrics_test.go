package lyrics

import (
	"reflect"
	"testing"
	"time"

	"github.com/uta-tools/lyricmatch/core/mora"
	"github.com/uta-tools/lyricmatch/core/reading"
)

func TestTokenID(t *testing.T) {
	tests := []struct {
		corpusID   string
		line, tok  int
		want       string
	}{
		{"corpus_001", 2, 3, "corpus_001_2_3"},
		{"corpus_abc", 0, 0, "corpus_abc_0_0"},
		{"c", 10, 7, "c_10_7"},
	}
	for _, tt := range tests {
		if got := TokenID(tt.corpusID, tt.line, tt.tok); got != tt.want {
			t.Errorf("TokenID(%q, %d, %d) = %q; want %q", tt.corpusID, tt.line, tt.tok, got, tt.want)
		}
	}
}

func TestToken(t *testing.T) {
	tok := Token{
		CorpusID:   "corpus_001",
		Surface:    "東京",
		Reading:    reading.New("とうきょう"),
		Lemma:      "東京",
		POS:        "名詞",
		LineIndex:  2,
		TokenIndex: 3,
	}
	if tok.ID() != "corpus_001_2_3" {
		t.Errorf("ID() = %q; want corpus_001_2_3", tok.ID())
	}
	got := mora.Values(tok.Morae())
	want := []string{"ト", "ウ", "キョ", "ウ"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Morae() = %v; want %v", got, want)
	}
}

func TestCorpus(t *testing.T) {
	now := time.Now()
	c := Corpus{ID: "corpus_x", ContentHash: "deadbeef", Title: "Test Song", CreatedAt: now}
	if c.ID != "corpus_x" || c.ContentHash != "deadbeef" || !c.CreatedAt.Equal(now) {
		t.Errorf("unexpected corpus fields: %+v", c)
	}
}
