package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/docscout"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
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

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(deps.Stdout, "Found %d PDF links on %s\n", result.TotalPDFLinks, result.URL)
	for _, m := range result.Matches {
		fmt.Fprintf(deps.Stdout, "%-36s %-6s %4d  %s\n", m.DocumentType, m.Confidence(), m.Score, m.URL)
	}
	if len(result.Unmatched) > 0 {
		fmt.Fprintf(deps.Stdout, "No match: %s\n", strings.Join(result.Unmatched, ", "))
	}
	return nil
}
