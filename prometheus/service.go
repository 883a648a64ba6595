package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/docscout"
)

// Ensure decorators implement their interfaces at compile time.
var (
	_ docscout.Scraper    = (*Scraper)(nil)
	_ docscout.Downloader = (*Downloader)(nil)
)

// Scraper records metrics for a wrapped Scraper.
type Scraper struct {
	next    docscout.Scraper
	metrics *Metrics
}

// NewScraper wraps next.
func NewScraper(next docscout.Scraper, metrics *Metrics) *Scraper {
	return &Scraper{next: next, metrics: metrics}
}

// Scrape delegates to the wrapped scraper.
func (s *Scraper) Scrape(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error) {
	begin := time.Now()
	result, err := s.next.Scrape(ctx, req)
	s.metrics.observeScrape(result, err, time.Since(begin))
	return result, err
}

// Downloader records metrics for a wrapped Downloader.
type Downloader struct {
	next    docscout.Downloader
	metrics *Metrics
}

// NewDownloader wraps next.
func NewDownloader(next docscout.Downloader, metrics *Metrics) *Downloader {
	return &Downloader{next: next, metrics: metrics}
}

// Download delegates to the wrapped downloader. Failures are counted
// under their error code.
func (d *Downloader) Download(ctx context.Context, req *docscout.DownloadRequest) (*docscout.Download, error) {
	begin := time.Now()
	dl, err := d.next.Download(ctx, req)
	d.metrics.observeDownload(dl, err, time.Since(begin))
	return dl, err
}
