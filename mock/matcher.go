package mock

import "github.com/fwojciec/docscout"

var _ docscout.Matcher = (*Matcher)(nil)

// Matcher is a mock implementation of docscout.Matcher.
type Matcher struct {
	FindBestMatchFn func(candidates []docscout.CandidateLink, documentType string) (*docscout.ScoredMatch, error)
	DocumentTypesFn func() []string
}

func (m *Matcher) FindBestMatch(candidates []docscout.CandidateLink, documentType string) (*docscout.ScoredMatch, error) {
	return m.FindBestMatchFn(candidates, documentType)
}

func (m *Matcher) DocumentTypes() []string {
	return m.DocumentTypesFn()
}
