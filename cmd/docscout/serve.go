package main

import (
	"fmt"

	"github.com/fwojciec/docscout"
	dshttp "github.com/fwojciec/docscout/http"
)

// Run executes the serve command until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	types, err := deps.DocumentTypes(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}

	s := dshttp.NewServer()
	s.Addr = c.Addr
	s.Scraper = deps.Scraper
	s.Downloader = deps.Downloader
	s.DocumentTypes = types
	s.CORS = !c.NoCORS
	s.Logger = deps.Logger
	if !c.NoMetrics && deps.Metrics != nil {
		s.Metrics = deps.Metrics.Handler()
	}

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()
	return s.Close()
}
