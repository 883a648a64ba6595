package mock

import (
	"context"

	"github.com/fwojciec/docscout"
)

var _ docscout.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of docscout.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error)
}

func (s *Scraper) Scrape(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error) {
	return s.ScrapeFn(ctx, req)
}
