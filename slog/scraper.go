package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docscout"
)

// Ensure LoggingScraper implements docscout.Scraper.
var _ docscout.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper with logging.
type LoggingScraper struct {
	next   docscout.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next docscout.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape delegates to the wrapped scraper and logs the operation.
func (s *LoggingScraper) Scrape(ctx context.Context, req *docscout.ScrapeRequest) (result *docscout.ScrapeResult, err error) {
	defer func(begin time.Time) {
		var links, matched, unmatched int
		if result != nil {
			links = result.TotalPDFLinks
			matched = len(result.Matches)
			unmatched = len(result.Unmatched)
		}
		s.logger.Info("scrape",
			"url", req.URL,
			"types", len(req.DocumentTypes),
			"links", links,
			"matched", matched,
			"unmatched", unmatched,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scrape(ctx, req)
}
