package prometheus_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/mock"
	dsprom "github.com/fwojciec/docscout/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrapeMetrics(t *testing.T, m *dsprom.Metrics) string {
	t.Helper()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("counts matches by type and confidence", func(t *testing.T) {
		t.Parallel()

		m := dsprom.NewMetrics("Statuts", "Fiche Produit", "Prospectus")
		inner := &mock.Scraper{
			ScrapeFn: func(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error) {
				return &docscout.ScrapeResult{
					Matches: []*docscout.ScoredMatch{
						{DocumentType: "Statuts", Score: 94},
						{DocumentType: "Fiche Produit", Score: 2},
					},
					Unmatched: []string{"Prospectus"},
				}, nil
			},
		}

		_, err := dsprom.NewScraper(inner, m).Scrape(context.Background(), &docscout.ScrapeRequest{URL: "https://example.com/"})

		require.NoError(t, err)
		output := scrapeMetrics(t, m)
		assert.Contains(t, output, `docscout_scrapes_total{outcome="success"} 1`)
		assert.Contains(t, output, `docscout_matches_total{confidence="high",type="Statuts"} 1`)
		assert.Contains(t, output, `docscout_matches_total{confidence="low",type="Fiche Produit"} 1`)
		assert.Contains(t, output, `docscout_unmatched_total{type="Prospectus"} 1`)
		assert.Contains(t, output, `docscout_operation_duration_seconds_count{operation="scrape"} 1`)
	})

	t.Run("counts unknown document types under one label", func(t *testing.T) {
		t.Parallel()

		m := dsprom.NewMetrics("Statuts", "Prospectus")
		inner := &mock.Scraper{
			ScrapeFn: func(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error) {
				return &docscout.ScrapeResult{Unmatched: req.DocumentTypes}, nil
			},
		}
		types := []string{"Prospectus"}
		for i := range 500 {
			types = append(types, fmt.Sprintf("made-up-%d", i))
		}

		_, err := dsprom.NewScraper(inner, m).Scrape(context.Background(), &docscout.ScrapeRequest{
			URL:           "https://example.com/",
			DocumentTypes: types,
		})

		require.NoError(t, err)
		count, err := testutil.GatherAndCount(m.Registry(), "docscout_unmatched_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		output := scrapeMetrics(t, m)
		assert.Contains(t, output, `docscout_unmatched_total{type="Prospectus"} 1`)
		assert.Contains(t, output, `docscout_unmatched_total{type="unknown"} 500`)
	})

	t.Run("counts failures", func(t *testing.T) {
		t.Parallel()

		m := dsprom.NewMetrics()
		inner := &mock.Scraper{
			ScrapeFn: func(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error) {
				return nil, errors.New("boom")
			},
		}
		s := dsprom.NewScraper(inner, m)

		_, err := s.Scrape(context.Background(), &docscout.ScrapeRequest{})
		require.Error(t, err)
		_, err = s.Scrape(context.Background(), &docscout.ScrapeRequest{})
		require.Error(t, err)

		assert.Contains(t, scrapeMetrics(t, m), `docscout_scrapes_total{outcome="error"} 2`)
	})
}

func TestDownloader_Download(t *testing.T) {
	t.Parallel()

	t.Run("counts bytes of successful downloads", func(t *testing.T) {
		t.Parallel()

		m := dsprom.NewMetrics()
		inner := &mock.Downloader{
			DownloadFn: func(ctx context.Context, req *docscout.DownloadRequest) (*docscout.Download, error) {
				return &docscout.Download{Size: 1500}, nil
			},
		}

		_, err := dsprom.NewDownloader(inner, m).Download(context.Background(), &docscout.DownloadRequest{URL: "https://example.com/a.pdf"})

		require.NoError(t, err)
		output := scrapeMetrics(t, m)
		assert.Contains(t, output, `docscout_downloads_total{outcome="success"} 1`)
		assert.Contains(t, output, `docscout_downloaded_bytes_total 1500`)
	})

	t.Run("labels failures with error code", func(t *testing.T) {
		t.Parallel()

		m := dsprom.NewMetrics()
		inner := &mock.Downloader{
			DownloadFn: func(ctx context.Context, req *docscout.DownloadRequest) (*docscout.Download, error) {
				return nil, docscout.Errorf(docscout.ETOOLARGE, "too large")
			},
		}

		_, err := dsprom.NewDownloader(inner, m).Download(context.Background(), &docscout.DownloadRequest{URL: "https://example.com/a.pdf"})

		require.Error(t, err)
		assert.Contains(t, scrapeMetrics(t, m), `docscout_downloads_total{outcome="too_large"} 1`)
	})
}

func TestMetrics_Registry(t *testing.T) {
	t.Parallel()

	m := dsprom.NewMetrics()

	count, err := testutil.GatherAndCount(m.Registry(), "docscout_downloaded_bytes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
