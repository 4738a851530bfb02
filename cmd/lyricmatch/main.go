// Command lyricmatch registers Japanese lyric corpora and matches input
// text against them by surface, reading and mora combination.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"

	"github.com/uta-tools/lyricmatch/core/match"
	"github.com/uta-tools/lyricmatch/core/mora"
	"github.com/uta-tools/lyricmatch/core/sqlite"
	"github.com/uta-tools/lyricmatch/internal/app"
	"github.com/uta-tools/lyricmatch/internal/config"
	"github.com/uta-tools/lyricmatch/internal/logging"
	"github.com/uta-tools/lyricmatch/internal/store"
	"github.com/uta-tools/lyricmatch/internal/tokenize"
)

const version = "0.1.0"

// CLI defines the command-line interface for lyricmatch.
var CLI struct {
	// Global flags
	DB        string `help:"SQLite database path (default $LYRICMATCH_DB or lyricmatch.db)" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`

	// Command groups (noun-first organization)
	Corpus  CorpusGroup `cmd:"" help:"Corpus operations (register, list, show, delete)"`
	Match   MatchCmd    `cmd:"" help:"Match input text against a corpus"`
	Runs    RunsGroup   `cmd:"" help:"Match run operations (list, show, delete)"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// CorpusGroup contains corpus lifecycle operations.
type CorpusGroup struct {
	Register RegisterCmd     `cmd:"" help:"Register a lyrics file as a new corpus"`
	List     CorpusListCmd   `cmd:"" help:"List registered corpora"`
	Show     CorpusShowCmd   `cmd:"" help:"Show corpus details and token preview"`
	Delete   CorpusDeleteCmd `cmd:"" help:"Delete a corpus with its tokens and runs"`
}

// RunsGroup contains match run operations.
type RunsGroup struct {
	List   RunsListCmd   `cmd:"" help:"List stored match runs"`
	Show   RunsShowCmd   `cmd:"" help:"Show one run with resolved token references"`
	Delete RunsDeleteCmd `cmd:"" help:"Delete a stored match run"`
}

// loadConfig merges the environment configuration with global flags;
// flags win.
func loadConfig() config.Config {
	cfg := config.Load()
	if CLI.DB != "" {
		cfg.DBPath = CLI.DB
	}
	if CLI.LogLevel != "" {
		cfg.LogLevel = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.LogFormat = CLI.LogFormat
	}
	return cfg
}

func newTokenizer() (*tokenize.Tokenizer, error) {
	tk, err := tokenize.New()
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer dictionary: %w", err)
	}
	return tk, nil
}

func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
	}
	return st, nil
}

// openStoreReadOnly opens the database read-only. The list/show commands
// use it; the database must already exist.
func openStoreReadOnly(cfg config.Config) (*store.Store, error) {
	st, err := store.OpenReadOnly(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
	}
	return st, nil
}

// readInput reads a lyrics or query file. "-" means stdin; a .xz suffix
// selects transparent decompression.
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("opening xz stream %s: %w", path, err)
		}
		r = xr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// RegisterCmd registers a lyrics file as a new corpus.
type RegisterCmd struct {
	Path  string `arg:"" help:"Lyrics file (plain text or .xz, - for stdin)"`
	Title string `help:"Corpus title (defaults to the file path)"`
}

func (c *RegisterCmd) Run() error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	text, err := readInput(c.Path)
	if err != nil {
		return err
	}
	title := c.Title
	if title == "" && c.Path != "-" {
		title = c.Path
	}

	tk, err := newTokenizer()
	if err != nil {
		return err
	}
	registrar := &app.Registrar{Corpora: st, Tokens: st, Tokenizer: tk}
	corpusID, created, err := registrar.Register(context.Background(), text, title)
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("Already registered: %s\n", corpusID)
		return nil
	}

	count, err := st.CountTokens(context.Background(), corpusID)
	if err != nil {
		return err
	}
	fmt.Printf("Registered: %s\n", corpusID)
	fmt.Printf("  Title:  %s\n", title)
	fmt.Printf("  Tokens: %d\n", count)
	return nil
}

// CorpusListCmd lists registered corpora.
type CorpusListCmd struct {
	Title string `help:"Filter by title substring"`
	Limit int    `help:"Maximum number of corpora to show" default:"50"`
}

func (c *CorpusListCmd) Run() error {
	cfg := loadConfig()
	st, err := openStoreReadOnly(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	lister := &app.Lister{Corpora: st, Runs: st}
	corpora, err := lister.ListCorpora(context.Background(), c.Title, c.Limit)
	if err != nil {
		return err
	}

	if len(corpora) == 0 {
		fmt.Println("No corpora registered.")
		return nil
	}
	for _, cp := range corpora {
		fmt.Printf("%s  %s  %s\n", cp.ID, cp.CreatedAt.Format("2006-01-02 15:04:05"), cp.Title)
	}
	return nil
}

// CorpusShowCmd shows corpus details and a token preview.
type CorpusShowCmd struct {
	ID      string `arg:"" help:"Corpus ID"`
	Preview int    `help:"Number of tokens to preview" default:"10"`
}

func (c *CorpusShowCmd) Run() error {
	cfg := loadConfig()
	st, err := openStoreReadOnly(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	corpus, err := st.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	count, err := st.CountTokens(ctx, c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Corpus: %s\n", corpus.ID)
	fmt.Printf("  Title:        %s\n", corpus.Title)
	fmt.Printf("  Content Hash: %s\n", corpus.ContentHash)
	fmt.Printf("  Created:      %s\n", corpus.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Tokens:       %d\n", count)

	if c.Preview > 0 && count > 0 {
		tokens, err := st.ListTokens(ctx, c.ID, c.Preview)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println("Tokens")
		fmt.Println("------")
		for _, t := range tokens {
			morae := mora.Values(t.Morae())
			fmt.Printf("  %s  %s (%s)  [%s]\n", t.ID(), t.Surface, t.Reading.Normalized(), strings.Join(morae, " "))
		}
		if count > len(tokens) {
			fmt.Printf("  ... and %d more\n", count-len(tokens))
		}
	}
	return nil
}

// CorpusDeleteCmd deletes a corpus with its tokens and runs.
type CorpusDeleteCmd struct {
	ID string `arg:"" help:"Corpus ID"`
}

func (c *CorpusDeleteCmd) Run() error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteCorpus(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted: %s\n", c.ID)
	return nil
}

// MatchCmd matches input text against a corpus and stores the run.
type MatchCmd struct {
	Corpus        string `required:"" help:"Corpus ID to match against"`
	Text          string `arg:"" optional:"" help:"Input text (omit to read --file or stdin)"`
	File          string `help:"Read input text from a file (- for stdin)" type:"path"`
	MaxMoraLength int    `name:"max-mora-length" help:"Mora combination length bound (default $LYRICMATCH_MAX_MORA_LENGTH or 5)"`
}

func (c *MatchCmd) Run() error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	text := c.Text
	if text == "" {
		path := c.File
		if path == "" {
			path = "-"
		}
		text, err = readInput(path)
		if err != nil {
			return err
		}
	}

	matchCfg := match.Config{MaxMoraLength: cfg.MaxMoraLength}
	if c.MaxMoraLength != 0 {
		matchCfg.MaxMoraLength = c.MaxMoraLength
	}

	tk, err := newTokenizer()
	if err != nil {
		return err
	}
	ctx := context.Background()
	matcher := &app.Matcher{Corpora: st, Lookup: st, Runs: st, Tokenizer: tk}
	runID, err := matcher.Match(ctx, text, c.Corpus, matchCfg)
	if err != nil {
		return err
	}

	querier := &app.Querier{Runs: st, Tokens: st}
	report, err := querier.Report(ctx, runID)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

// RunsListCmd lists stored match runs.
type RunsListCmd struct {
	Corpus string `help:"Only runs against this corpus"`
	Limit  int    `help:"Maximum number of runs to show" default:"50"`
}

func (c *RunsListCmd) Run() error {
	cfg := loadConfig()
	st, err := openStoreReadOnly(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	lister := &app.Lister{Corpora: st, Runs: st}
	runs, err := lister.ListRuns(context.Background(), c.Corpus, c.Limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}
	for _, r := range runs {
		input := r.InputText
		if n := strings.IndexByte(input, '\n'); n >= 0 {
			input = input[:n] + "…"
		}
		fmt.Printf("%s  %s  %s  %s\n", r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.CorpusID, input)
	}
	return nil
}

// RunsShowCmd shows one run with resolved token references.
type RunsShowCmd struct {
	ID string `arg:"" help:"Run ID"`
}

func (c *RunsShowCmd) Run() error {
	cfg := loadConfig()
	st, err := openStoreReadOnly(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	querier := &app.Querier{Runs: st, Tokens: st}
	report, err := querier.Report(context.Background(), c.ID)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

// RunsDeleteCmd deletes a stored match run.
type RunsDeleteCmd struct {
	ID string `arg:"" help:"Run ID"`
}

func (c *RunsDeleteCmd) Run() error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteRun(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted: %s\n", c.ID)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("lyricmatch %s\n", version)
	info := sqlite.GetInfo()
	fmt.Printf("  SQLite driver: %s (%s, %s)\n", sqlite.DriverName(), info.DriverType, info.Package)
	if sqlite.IsCGO() {
		fmt.Println("  SQLite build:  cgo")
	} else {
		fmt.Println("  SQLite build:  pure Go")
	}
	return nil
}

// printReport renders a match run: one block per input unit, with the
// matched token ids or the per-mora sources.
func printReport(report *app.Report) {
	run := report.Run
	fmt.Printf("Run: %s\n", run.ID)
	fmt.Printf("  Corpus:    %s\n", run.CorpusID)
	fmt.Printf("  Timestamp: %s\n", run.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Max Morae: %d\n", run.Config.MaxMoraLength)
	fmt.Printf("  Units:     %d\n", len(run.Results))

	for i, res := range run.Results {
		fmt.Println()
		fmt.Printf("%d. %s (%s)  %s\n", i+1, res.InputSurface, res.InputReading, res.Type)
		for _, id := range res.MatchedTokenIDs {
			if tok, ok := report.Tokens[id]; ok {
				fmt.Printf("     %s  %s (%s)\n", id, tok.Surface, tok.Reading.Normalized())
			} else {
				fmt.Printf("     %s\n", id)
			}
		}
		for _, d := range res.MoraDetails {
			line := fmt.Sprintf("     %s <- %s[%d]", d.Mora, d.SourceTokenID, d.MoraIndex)
			if tok, ok := report.Tokens[d.SourceTokenID]; ok {
				line += fmt.Sprintf("  %s (%s)", tok.Surface, tok.Reading.Normalized())
			}
			fmt.Println(line)
		}
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("lyricmatch"),
		kong.Description("Japanese lyric matching over mora-indexed corpora"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	cfg := loadConfig()
	logging.InitLogger(logging.ParseLevel(cfg.LogLevel), logging.ParseFormat(cfg.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
