package docscout

import (
	"context"
	"net/url"
	"time"
)

// ScrapeRequest asks for the best link per document type on a page.
type ScrapeRequest struct {
	URL           string   `json:"url"`
	DocumentTypes []string `json:"documentTypes"`
}

// Validate returns an error if the request contains invalid fields.
func (r *ScrapeRequest) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "URL parameter is required")
	}
	u, err := url.Parse(r.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Errorf(EINVALID, "invalid URL: %q", r.URL)
	}
	return nil
}

// ScrapeResult holds the outcome of scraping one page.
type ScrapeResult struct {
	ID            string         `json:"id"`
	URL           string         `json:"url"`
	TotalPDFLinks int            `json:"totalPdfLinks"`
	Matches       []*ScoredMatch `json:"matchedDocuments"`

	// Unmatched lists requested types with no match, including unknown types.
	Unmatched []string  `json:"unmatched"`
	ScrapedAt time.Time `json:"scrapedAt"`
}

// Scraper finds the best matching document links on a page.
type Scraper interface {
	// Scrape fetches the page, extracts candidate links and matches each
	// requested document type. Matches are sorted by score, highest first.
	Scrape(ctx context.Context, req *ScrapeRequest) (*ScrapeResult, error)
}
