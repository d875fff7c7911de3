package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rezept"
	"github.com/fwojciec/rezept/fs"
	"github.com/fwojciec/rezept/gemini"
	"github.com/fwojciec/rezept/goldmark"
	"github.com/fwojciec/rezept/goquery"
	"github.com/fwojciec/rezept/htmltomarkdown"
	rezepthttp "github.com/fwojciec/rezept/http"
	"github.com/fwojciec/rezept/parse"
	"github.com/fwojciec/rezept/rod"
	rezeptslog "github.com/fwojciec/rezept/slog"
	"github.com/fwojciec/rezept/sqlite"
	"github.com/fwojciec/rezept/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Gemini API key. Vector search is enabled when set.
	GeminiAPIKey string

	// SQLite database used by the recipe store.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:       defaultDBPath(),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("rezept"),
		kong.Description("Extract German recipes from web pages into markdown"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'rezept --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	switch cmd {
	case "parse", "load":
		flags := cli.Parse.FetchFlags
		if cmd == "load" {
			flags = cli.Load.FetchFlags
		}
		p, closeFn, err := newParser(flags, deps.Logger)
		if err != nil {
			if flags.Browser {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			}
			return err
		}
		defer closeFn()
		deps.Parser = p
		deps.NewWriter = func(dir string) rezept.RecipeWriter { return fs.NewWriter(dir) }

	case "discover":
		var sitemaps rezept.SitemapService = rezepthttp.NewSitemapService(nil, rezepthttp.WithTimeout(cli.Discover.Timeout))
		if deps.Logger != nil {
			sitemaps = rezeptslog.NewLoggingSitemapService(sitemaps, deps.Logger)
		}
		deps.Sitemaps = sitemaps
	}

	if cmd == "load" || cmd == "import" || cmd == "search" || cmd == "count" {
		if err := m.openStore(ctx, deps); err != nil {
			return err
		}
		defer m.Close()
	}
	if cmd == "import" {
		deps.NewLoader = func(dir string) rezept.RecipeLoader {
			return fs.NewLoader(dir, goldmark.NewParser())
		}
	}

	return kongCtx.Run(deps)
}

// openStore opens the database and wires the recipe store.
func (m *Main) openStore(ctx context.Context, deps *Dependencies) error {
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set REZEPT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}

	var embedder rezept.Embedder
	if m.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  m.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			m.Close()
			fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		embedder = gemini.NewEmbedder(client)
	}

	var store rezept.RecipeStore = sqlite.NewRecipeStore(m.DB, embedder)
	if deps.Logger != nil {
		store = rezeptslog.NewLoggingRecipeStore(store, deps.Logger)
	}
	deps.Store = store
	return nil
}

// newParser wires the recipe pipeline. The returned function releases the
// fetcher.
func newParser(flags FetchFlags, logger *slog.Logger) (rezept.RecipeParser, func() error, error) {
	var fetcher rezept.Fetcher
	if flags.Browser {
		f, err := rod.NewFetcher(rod.WithTimeout(flags.Timeout))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		fetcher = rezepthttp.NewFetcher(rezepthttp.WithTimeout(flags.Timeout))
	}
	if flags.Retries > 0 {
		fetcher = &parse.RetryFetcher{
			Fetcher:   fetcher,
			Delays:    parse.BackoffDelays(flags.Retries),
			Retryable: rezepthttp.IsTransient,
			Logger:    logger,
		}
	}

	extractors := []rezept.Extractor{
		goquery.NewStructuredExtractor(),
		goquery.NewHeuristicExtractor(),
		trafilatura.NewMetadataExtractor(),
	}

	p := &parse.Parser{
		Fetcher:     fetcher,
		Extractors:  extractors,
		Cleaner:     htmltomarkdown.NewCleaner(),
		RateLimiter: parse.NewDomainLimiter(flags.Rate),
		Concurrency: flags.Concurrency,
	}
	if logger == nil {
		return p, fetcher.Close, nil
	}

	p.Fetcher = rezeptslog.NewLoggingFetcher(fetcher, logger)
	names := []string{"jsonld", "heuristic", "metadata"}
	for i, e := range extractors {
		p.Extractors[i] = rezeptslog.NewLoggingExtractor(names[i], e, logger)
	}
	p.Progress = func(e parse.ProgressEvent) {
		if e.Type == parse.ProgressCompleted || e.Type == parse.ProgressFailed {
			logger.Debug("progress", "completed", e.Completed, "total", e.Total)
		}
	}
	return rezeptslog.NewLoggingParser(p, logger), fetcher.Close, nil
}

func defaultDBPath() string {
	if path := os.Getenv("REZEPT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "rezept.db"
	}
	dir := filepath.Join(home, ".rezept")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "rezept.db")
}
