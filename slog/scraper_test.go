package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/mock"
	dsslog "github.com/fwojciec/docscout/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("logs counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Scraper{
			ScrapeFn: func(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error) {
				return &docscout.ScrapeResult{
					URL:           req.URL,
					TotalPDFLinks: 7,
					Matches:       []*docscout.ScoredMatch{{DocumentType: "Statuts", Score: 94}},
					Unmatched:     []string{"Prospectus"},
				}, nil
			},
		}

		s := dsslog.NewLoggingScraper(inner, logger)
		_, err := s.Scrape(context.Background(), &docscout.ScrapeRequest{
			URL:           "https://example.com/scpi",
			DocumentTypes: []string{"Statuts", "Prospectus"},
		})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "scrape")
		assert.Contains(t, output, "url=https://example.com/scpi")
		assert.Contains(t, output, "types=2")
		assert.Contains(t, output, "links=7")
		assert.Contains(t, output, "matched=1")
		assert.Contains(t, output, "unmatched=1")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Scraper{
			ScrapeFn: func(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error) {
				return nil, errors.New("network error")
			},
		}

		s := dsslog.NewLoggingScraper(inner, logger)
		_, err := s.Scrape(context.Background(), &docscout.ScrapeRequest{URL: "https://example.com/"})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "links=0")
		assert.Contains(t, output, "err=\"network error\"")
	})
}
