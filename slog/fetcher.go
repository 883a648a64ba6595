// Package slog provides logging decorators for the docscout services.
package slog

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/docscout"
)

// Ensure LoggingFetcher implements docscout.Fetcher.
var _ docscout.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging. Pages fetched successfully
// are logged at debug level; failures are logged as warnings with their
// error code, since the scraper may still retry them.
type LoggingFetcher struct {
	next   docscout.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next docscout.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the page fetch.
func (f *LoggingFetcher) Fetch(ctx context.Context, pageURL string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"host", hostOf(pageURL),
			"url", pageURL,
			"duration", time.Since(begin),
		}
		if err != nil {
			attrs = append(attrs, "code", docscout.ErrorCode(err), "err", err)
			f.logger.Warn("page fetch failed", attrs...)
			return
		}
		attrs = append(attrs, "bytes", len(html))
		f.logger.Debug("page fetched", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, pageURL)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
