package main

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/docscout"
	"golang.org/x/sync/errgroup"
)

// Run executes the fetch command. A failed download is reported and
// skipped; the documents that did download are still committed.
func (c *FetchCmd) Run(deps *Dependencies) error {
	types, err := requestedTypes(deps, c.Types)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}

	result, err := deps.Scraper.Scrape(deps.Ctx, &docscout.ScrapeRequest{URL: c.URL, DocumentTypes: types})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}

	matches := filterConfidence(result.Matches, docscout.Confidence(c.MinConfidence))
	fmt.Fprintf(deps.Stdout, "Found %d PDF links, %d matched documents\n", result.TotalPDFLinks, len(matches))

	name := c.Name
	if name == "" {
		name = dirName(c.URL)
	}
	store := deps.NewStore(c.Dir, name)

	parallel := c.Parallel
	if parallel <= 0 {
		parallel = 1
	}

	var (
		mu            sync.Mutex // guards output
		saved, failed atomic.Int32
	)
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(parallel)
	for _, m := range matches {
		g.Go(func() error {
			d, err := deps.Downloader.Download(ctx, &docscout.DownloadRequest{URL: m.URL, FileName: m.FileName})
			if err != nil {
				failed.Add(1)
				mu.Lock()
				fmt.Fprintf(deps.Stderr, "skip %s (%s): %s\n", m.DocumentType, m.URL, docscout.ErrorMessage(err))
				mu.Unlock()
				return nil
			}
			if err := store.Save(ctx, m.DocumentType, d); err != nil {
				return fmt.Errorf("saving %s: %w", d.FileName, err)
			}
			saved.Add(1)
			mu.Lock()
			fmt.Fprintf(deps.Stdout, "%-36s %s (%s)\n", m.DocumentType, d.FileName, docscout.FormatBytes(int64(d.Size)))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if saved.Load() == 0 {
		_ = store.Abort()
		fmt.Fprintln(deps.Stdout, "No documents saved")
		return nil
	}
	if err := store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d documents to %s", saved.Load(), filepath.Join(c.Dir, name))
	if n := failed.Load(); n > 0 {
		fmt.Fprintf(deps.Stdout, " (%d failed)", n)
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}

var confidenceRank = map[docscout.Confidence]int{
	docscout.ConfidenceLow:    0,
	docscout.ConfidenceMedium: 1,
	docscout.ConfidenceHigh:   2,
}

func filterConfidence(matches []*docscout.ScoredMatch, min docscout.Confidence) []*docscout.ScoredMatch {
	var out []*docscout.ScoredMatch
	for _, m := range matches {
		if confidenceRank[m.Confidence()] >= confidenceRank[min] {
			out = append(out, m)
		}
	}
	return out
}

// dirName derives an output directory name from the page host.
func dirName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "documents"
	}
	return strings.ReplaceAll(u.Hostname(), ".", "-")
}
