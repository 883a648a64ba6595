package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/fs"
	"github.com/fwojciec/docscout/goquery"
	dshttp "github.com/fwojciec/docscout/http"
	"github.com/fwojciec/docscout/match"
	"github.com/fwojciec/docscout/pdf"
	dsprom "github.com/fwojciec/docscout/prometheus"
	"github.com/fwojciec/docscout/rod"
	"github.com/fwojciec/docscout/scrape"
	dsslog "github.com/fwojciec/docscout/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When set they replace the services
	// Run would otherwise build.
	Scraper    docscout.Scraper
	Downloader docscout.Downloader

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases resources acquired by Run.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
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
		kong.Name("docscout"),
		kong.Description("Find and download regulatory documents linked from investment product pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docscout --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if kongCtx.Command() == "serve" {
		level = slog.LevelInfo
	}
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = newLogger(stderr, level, cli.LogJSON)

	if err := m.wire(cli, deps); err != nil {
		return err
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// wire builds the services selected by the global flags.
func (m *Main) wire(cli *CLI, deps *Dependencies) error {
	deps.NewStore = func(dir, name string) docscout.DocumentStore {
		return fs.NewFileStore(dir, name)
	}

	if cli.Server != "" {
		if cli.Render || cli.Patterns != "" {
			fmt.Fprintln(deps.Stderr, "warning: --render and --patterns are ignored with --server")
		}
		client := dshttp.NewClient(cli.Server)
		deps.Scraper = client
		deps.Downloader = client
		deps.DocumentTypes = client.DocumentTypes
		// Remote types are not known while wiring, so every unmatched type is
		// counted as unknown.
		m.override(deps)
		return nil
	}

	table := match.DefaultTable()
	if cli.Patterns != "" {
		f, err := os.Open(cli.Patterns)
		if err != nil {
			return fmt.Errorf("failed to open patterns: %w", err)
		}
		defer f.Close()
		if table, err = match.LoadTable(f); err != nil {
			return fmt.Errorf("failed to load patterns from %s: %w", cli.Patterns, err)
		}
	}

	var fetcher docscout.Fetcher
	if cli.Render {
		rf, err := rod.NewFetcher(
			rod.WithFetchTimeout(cli.PageTimeout),
			rod.WithUserAgent(dshttp.DefaultUserAgent),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, rf)
		fetcher = rf
	} else {
		fetcher = dshttp.NewFetcher(dshttp.WithTimeout(cli.PageTimeout))
	}

	matcher := dsslog.NewLoggingMatcher(match.NewMatcher(table), deps.Logger)
	deps.DocumentTypes = func(context.Context) ([]string, error) {
		return matcher.DocumentTypes(), nil
	}

	logger := deps.Logger
	scraper := &scrape.Scraper{
		Fetcher:     dsslog.NewLoggingFetcher(fetcher, logger),
		Extractor:   goquery.NewExtractor(),
		Matcher:     matcher,
		Concurrency: cli.Concurrency,
		RetryDelays: retryDelays(cli.Retries),
		RetryLog: func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		},
	}
	// Zero disables rate limiting.
	if cli.RPS > 0 {
		scraper.RateLimiter = scrape.NewDomainLimiter(cli.RPS, 1)
	}
	deps.Scraper = dsslog.NewLoggingScraper(scraper, logger)

	deps.Downloader = dsslog.NewLoggingDownloader(dshttp.NewDownloader(pdf.NewInspector(),
		dshttp.WithDownloadTimeout(cli.DownloadTimeout),
		dshttp.WithHeadTimeout(cli.HeadTimeout),
		dshttp.WithMaxSize(cli.MaxSize),
	), logger)

	m.override(deps, matcher.DocumentTypes()...)
	return nil
}

// override applies the services set on Main and wraps the final services
// with metrics labelled by documentTypes.
func (m *Main) override(deps *Dependencies, documentTypes ...string) {
	if m.Scraper != nil {
		deps.Scraper = m.Scraper
	}
	if m.Downloader != nil {
		deps.Downloader = m.Downloader
	}
	deps.Metrics = dsprom.NewMetrics(documentTypes...)
	deps.Scraper = dsprom.NewScraper(deps.Scraper, deps.Metrics)
	deps.Downloader = dsprom.NewDownloader(deps.Downloader, deps.Metrics)
}

func newLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
