// Package scrape finds the best document links on a page: it fetches the
// page, extracts candidate links and matches every requested document type.
package scrape

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/fwojciec/docscout"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of document types matched in parallel.
const DefaultConcurrency = 4

// Ensure Scraper implements docscout.Scraper at compile time.
var _ docscout.Scraper = (*Scraper)(nil)

// Scraper orchestrates fetching, link extraction and matching.
type Scraper struct {
	Fetcher     docscout.Fetcher
	Extractor   docscout.LinkExtractor
	Matcher     docscout.Matcher
	RateLimiter docscout.DomainLimiter // optional
	Concurrency int
	RetryDelays []time.Duration
	RetryLog    LogFunc

	// NewID and Now default to uuid.NewString and time.Now.
	NewID func() string
	Now   func() time.Time
}

// Scrape fetches req.URL and returns one match per requested document type
// that has a candidate scoring above zero, sorted by score descending.
// Unknown document types are reported in Unmatched.
func (s *Scraper) Scrape(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	u, _ := url.Parse(req.URL)

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetch := func(ctx context.Context, url string) (string, error) {
		if s.RateLimiter != nil {
			if err := s.RateLimiter.Wait(ctx, u.Host); err != nil {
				return "", err
			}
		}
		return s.Fetcher.Fetch(ctx, url)
	}
	html, err := FetchWithRetryDelays(ctx, req.URL, fetch, s.RetryLog, delays)
	if err != nil {
		return nil, err
	}

	candidates, err := s.Extractor.ExtractCandidates(html, req.URL)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchAll(ctx, candidates, req.DocumentTypes)
	if err != nil {
		return nil, err
	}

	result := &docscout.ScrapeResult{
		ID:            s.newID(),
		URL:           req.URL,
		TotalPDFLinks: len(candidates),
		Matches:       []*docscout.ScoredMatch{},
		Unmatched:     []string{},
		ScrapedAt:     s.now(),
	}
	for i, m := range matches {
		if m == nil {
			result.Unmatched = append(result.Unmatched, req.DocumentTypes[i])
			continue
		}
		result.Matches = append(result.Matches, m)
	}
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Score > result.Matches[j].Score
	})

	return result, nil
}

// matchAll returns the best match for each document type, index-aligned
// with types. A nil entry means no match or an unknown type.
func (s *Scraper) matchAll(ctx context.Context, candidates []docscout.CandidateLink, types []string) ([]*docscout.ScoredMatch, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	matches := make([]*docscout.ScoredMatch, len(types))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, docType := range types {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := s.Matcher.FindBestMatch(candidates, docType)
			if docscout.ErrorCode(err) == docscout.ENOTFOUND {
				return nil
			} else if err != nil {
				return err
			}
			matches[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *Scraper) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Scraper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
