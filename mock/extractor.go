package mock

import "github.com/fwojciec/docscout"

var _ docscout.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docscout.LinkExtractor.
type LinkExtractor struct {
	ExtractCandidatesFn func(html string, baseURL string) ([]docscout.CandidateLink, error)
}

func (e *LinkExtractor) ExtractCandidates(html string, baseURL string) ([]docscout.CandidateLink, error) {
	return e.ExtractCandidatesFn(html, baseURL)
}
