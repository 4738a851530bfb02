package app_test

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/uta-tools/lyricmatch/core/errors"
	"github.com/uta-tools/lyricmatch/core/match"
	"github.com/uta-tools/lyricmatch/internal/app"
	"github.com/uta-tools/lyricmatch/internal/store/memory"
	"github.com/uta-tools/lyricmatch/internal/tokenize"
)

// stubTokenizer emits one unit per whitespace-separated surface#reading
// pair per line, so tests control readings without a real dictionary.
type stubTokenizer struct{}

func (stubTokenizer) Tokenize(text string) []tokenize.Unit {
	var units []tokenize.Unit
	for lineIndex, line := range strings.Split(text, "\n") {
		tokenIndex := 0
		for _, field := range strings.Fields(line) {
			surface, reading, _ := strings.Cut(field, "#")
			if reading == "" {
				reading = surface
			}
			units = append(units, tokenize.Unit{
				Surface:    surface,
				Reading:    reading,
				Lemma:      surface,
				POS:        "名詞",
				LineIndex:  lineIndex,
				TokenIndex: tokenIndex,
			})
			tokenIndex++
		}
	}
	return units
}

func newRegistrar(st *memory.Store) *app.Registrar {
	return &app.Registrar{Corpora: st, Tokens: st, Tokenizer: stubTokenizer{}}
}

func newMatcher(st *memory.Store) *app.Matcher {
	return &app.Matcher{Corpora: st, Lookup: st, Runs: st, Tokenizer: stubTokenizer{}}
}

func TestRegister(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	id, created, err := newRegistrar(st).Register(ctx, "東京#トウキョウ の#ノ 空#ソラ", "test song")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !created {
		t.Error("created = false on first registration")
	}
	if !strings.HasPrefix(id, "corpus_") {
		t.Errorf("corpus id %q lacks corpus_ prefix", id)
	}

	corpus, err := st.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if corpus.Title != "test song" {
		t.Errorf("Title = %q", corpus.Title)
	}
	if n, _ := st.CountTokens(ctx, id); n != 3 {
		t.Errorf("CountTokens = %d; want 3", n)
	}

	tok, err := st.TokenByID(ctx, id+"_0_0")
	if err != nil {
		t.Fatalf("TokenByID: %v", err)
	}
	if tok.Surface != "東京" || tok.Reading.Normalized() != "トウキョウ" {
		t.Errorf("first token = %q/%q", tok.Surface, tok.Reading.Normalized())
	}
}

func TestRegister_DedupByContent(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	reg := newRegistrar(st)

	first, _, err := reg.Register(ctx, "歌#ウタ", "a")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	second, created, err := reg.Register(ctx, "歌#ウタ", "different title, same text")
	if err != nil {
		t.Fatalf("Register again: %v", err)
	}
	if created {
		t.Error("created = true on duplicate content")
	}
	if second != first {
		t.Errorf("duplicate returned %q; want existing %q", second, first)
	}
	corpora, _ := st.ListCorpora(ctx, 0)
	if len(corpora) != 1 {
		t.Errorf("len(corpora) = %d; want 1", len(corpora))
	}
}

func TestRegister_EmptyText(t *testing.T) {
	st := memory.New()
	_, _, err := newRegistrar(st).Register(context.Background(), "", "x")
	if !apperrors.IsInvalidInput(err) {
		t.Errorf("err = %v; want invalid input", err)
	}
}

func TestMatch_PersistsRun(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	corpusID, _, err := newRegistrar(st).Register(ctx, "東京#トウキョウ 空#ソラ", "song")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	runID, err := newMatcher(st).Match(ctx, "東京#トウキョウ 海#ウミ", corpusID, match.DefaultConfig())
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !strings.HasPrefix(runID, "run_") {
		t.Errorf("run id %q lacks run_ prefix", runID)
	}

	run, err := st.FindByID(ctx, runID)
	if err != nil || run == nil {
		t.Fatalf("FindByID: run=%v err=%v", run, err)
	}
	if run.CorpusID != corpusID {
		t.Errorf("CorpusID = %q", run.CorpusID)
	}
	if len(run.Results) != 2 {
		t.Fatalf("len(Results) = %d; want 2", len(run.Results))
	}
	if run.Results[0].Type != match.ExactSurface {
		t.Errorf("Results[0].Type = %q; want exact surface", run.Results[0].Type)
	}
	if run.Results[1].Type != match.NoMatch {
		t.Errorf("Results[1].Type = %q; want no match", run.Results[1].Type)
	}
	if run.Config.MaxMoraLength != match.DefaultMaxMoraLength {
		t.Errorf("Config.MaxMoraLength = %d", run.Config.MaxMoraLength)
	}
}

func TestMatch_UnknownCorpus(t *testing.T) {
	st := memory.New()
	_, err := newMatcher(st).Match(context.Background(), "歌#ウタ", "corpus_missing", match.DefaultConfig())
	if !apperrors.IsNotFound(err) {
		t.Errorf("err = %v; want not found", err)
	}
	runs, _ := st.ListRuns(context.Background(), 0)
	if len(runs) != 0 {
		t.Errorf("a run was persisted for an unknown corpus")
	}
}

func TestMatch_InvalidConfig(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	corpusID, _, _ := newRegistrar(st).Register(ctx, "歌#ウタ", "song")

	_, err := newMatcher(st).Match(ctx, "歌#ウタ", corpusID, match.Config{MaxMoraLength: 0})
	if !apperrors.IsInvalidInput(err) {
		t.Errorf("err = %v; want invalid input", err)
	}
	runs, _ := st.ListRuns(ctx, 0)
	if len(runs) != 0 {
		t.Errorf("a run was persisted despite invalid config")
	}
}

func TestReport_ResolvesReferencedTokens(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	corpusID, _, err := newRegistrar(st).Register(ctx, "東#ヒガシ 京#キョウ", "song")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	// ウシ is absent as surface and reading but assembles from stored morae.
	runID, err := newMatcher(st).Match(ctx, "牛#ウシ 京#キョウ", corpusID, match.DefaultConfig())
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	report, err := (&app.Querier{Runs: st, Tokens: st}).Report(ctx, runID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.Run.Results) != 2 {
		t.Fatalf("len(Results) = %d; want 2", len(report.Run.Results))
	}
	if report.Run.Results[0].Type != match.MoraCombination {
		t.Errorf("Results[0].Type = %q; want mora combination", report.Run.Results[0].Type)
	}
	if report.Run.Results[1].Type != match.ExactSurface {
		t.Errorf("Results[1].Type = %q; want exact surface", report.Run.Results[1].Type)
	}
	for _, res := range report.Run.Results {
		for _, id := range res.MatchedTokenIDs {
			if _, ok := report.Tokens[id]; !ok {
				t.Errorf("matched token %s not resolved", id)
			}
		}
		for _, d := range res.MoraDetails {
			if _, ok := report.Tokens[d.SourceTokenID]; !ok {
				t.Errorf("mora source token %s not resolved", d.SourceTokenID)
			}
		}
	}
}

func TestLister_Filters(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	reg := newRegistrar(st)

	first, _, err := reg.Register(ctx, "春#ハル", "spring song")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	second, _, err := reg.Register(ctx, "冬#フユ", "winter song")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := newMatcher(st).Match(ctx, "春#ハル", first, match.DefaultConfig()); err != nil {
		t.Fatalf("Match: %v", err)
	}

	lister := &app.Lister{Corpora: st, Runs: st}

	all, err := lister.ListCorpora(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListCorpora: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d; want 2", len(all))
	}
	byTitle, err := lister.ListCorpora(ctx, "winter", 0)
	if err != nil {
		t.Fatalf("ListCorpora by title: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].ID != second {
		t.Errorf("title filter returned %v; want just %s", byTitle, second)
	}

	scoped, err := lister.ListRuns(ctx, first, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(scoped) != 1 {
		t.Errorf("len(scoped) = %d; want 1", len(scoped))
	}
	empty, err := lister.ListRuns(ctx, second, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("runs for unmatched corpus = %d; want 0", len(empty))
	}
}

func TestReport_UnknownRun(t *testing.T) {
	st := memory.New()
	_, err := (&app.Querier{Runs: st, Tokens: st}).Report(context.Background(), "run_missing")
	if !apperrors.IsNotFound(err) {
		t.Errorf("err = %v; want not found", err)
	}
}
