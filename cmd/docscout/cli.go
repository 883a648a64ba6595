package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docscout"
	dsprom "github.com/fwojciec/docscout/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Scraper       docscout.Scraper
	Downloader    docscout.Downloader
	DocumentTypes func(ctx context.Context) ([]string, error)
	NewStore      func(dir, name string) docscout.DocumentStore
	Metrics       *dsprom.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" env:"DOCSCOUT_VERBOSE" help:"Enable debug logging"`
	LogJSON bool   `name:"log-json" env:"DOCSCOUT_LOG_JSON" help:"Log in JSON format"`
	Server  string `env:"DOCSCOUT_SERVER" placeholder:"URL" help:"Use a remote docscout API instead of in-process services"`

	Render   bool   `env:"DOCSCOUT_RENDER" help:"Render pages in headless Chrome before extracting links"`
	Patterns string `type:"existingfile" env:"DOCSCOUT_PATTERNS" help:"YAML pattern table replacing the built-in one"`

	PageTimeout     time.Duration `default:"30s" env:"DOCSCOUT_PAGE_TIMEOUT" help:"Page fetch timeout"`
	DownloadTimeout time.Duration `default:"40s" env:"DOCSCOUT_DOWNLOAD_TIMEOUT" help:"PDF download timeout"`
	HeadTimeout     time.Duration `default:"10s" env:"DOCSCOUT_HEAD_TIMEOUT" help:"Timeout of the size check before a download"`
	MaxSize         int64         `default:"52428800" env:"DOCSCOUT_MAX_SIZE" help:"Largest accepted PDF in bytes"`
	Retries         int           `default:"3" env:"DOCSCOUT_RETRIES" help:"Page fetch attempts"`
	RPS             float64       `name:"rps" default:"1" env:"DOCSCOUT_RPS" help:"Page requests per second per domain (0 disables)"`
	Concurrency     int           `short:"c" default:"4" env:"DOCSCOUT_CONCURRENCY" help:"Document types matched in parallel"`

	Serve    ServeCmd    `cmd:"" help:"Run the HTTP API server"`
	Scrape   ScrapeCmd   `cmd:"" help:"Find the best document link per type on a page"`
	Download DownloadCmd `cmd:"" help:"Download and validate a PDF"`
	Fetch    FetchCmd    `cmd:"" help:"Scrape a page and download every matched document"`
	Types    TypesCmd    `cmd:"" help:"List supported document types"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string `default:":8080" env:"DOCSCOUT_ADDR" help:"Listen address"`
	NoCORS    bool   `name:"no-cors" env:"DOCSCOUT_NO_CORS" help:"Disable cross-origin headers"`
	NoMetrics bool   `name:"no-metrics" help:"Do not expose /metrics"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL   string   `arg:"" help:"Page listing the documents"`
	Types []string `short:"t" name:"type" help:"Document type to match (repeatable, default all)"`
	JSON  bool     `help:"Print the result as JSON"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	URL    string `arg:"" help:"PDF URL"`
	Output string `short:"o" type:"path" help:"Output file (default: file name from URL in current directory)"`
	Name   string `help:"File name reported for the document"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL           string   `arg:"" help:"Page listing the documents"`
	Dir           string   `arg:"" optional:"" default:"." type:"path" help:"Base path for output"`
	Name          string   `short:"n" help:"Output directory name (default: page host)"`
	Types         []string `short:"t" name:"type" help:"Document type to fetch (repeatable, default all)"`
	MinConfidence string   `default:"low" enum:"low,medium,high" help:"Skip matches below this confidence (low, medium, high)"`
	Parallel      int      `short:"p" default:"3" help:"Concurrent downloads"`
}

// TypesCmd is the "types" subcommand.
type TypesCmd struct{}

// retryDelays spaces page fetch attempts one second apart.
func retryDelays(attempts int) []time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delays := make([]time.Duration, attempts-1)
	for i := range delays {
		delays[i] = time.Second
	}
	return delays
}
