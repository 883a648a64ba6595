package match

import (
	"strings"

	"github.com/fwojciec/docscout"
)

// Score weights.
const (
	FileNameBonus  = 10 // added on top of Pattern.ScoreBonus
	KeywordScore   = 8
	LinkTextScore  = 12
	TypeTokenScore = 15
)

// Ensure Matcher implements docscout.Matcher at compile time.
var _ docscout.Matcher = (*Matcher)(nil)

// Matcher scores candidate links against a pattern table.
// Matcher holds no mutable state and is safe for concurrent use.
type Matcher struct {
	table *Table
}

// NewMatcher returns a Matcher backed by table.
// A nil table selects DefaultTable.
func NewMatcher(table *Table) *Matcher {
	if table == nil {
		table = DefaultTable()
	}
	return &Matcher{table: table}
}

// DocumentTypes returns the supported labels in table order.
func (m *Matcher) DocumentTypes() []string {
	return m.table.Labels()
}

// FindBestMatch returns the candidate with the strictly highest score for
// documentType. A candidate scoring zero is never selected.
func (m *Matcher) FindBestMatch(candidates []docscout.CandidateLink, documentType string) (*docscout.ScoredMatch, error) {
	p, ok := m.table.Lookup(documentType)
	if !ok {
		return nil, docscout.Errorf(docscout.ENOTFOUND, "no pattern for document type %q", documentType)
	}

	var best *docscout.ScoredMatch
	bestScore := 0
	for _, link := range candidates {
		score := p.Score(link)
		// Strictly greater: on ties the earlier candidate stays.
		if score > bestScore {
			bestScore = score
			best = &docscout.ScoredMatch{
				CandidateLink: link,
				DocumentType:  documentType,
				Score:         score,
			}
		}
	}
	return best, nil
}

// Score returns the heuristic score of link for the pattern's document type.
func (p *Pattern) Score(link docscout.CandidateLink) int {
	score := 0

	if p.MatchesFileName(link.FileName) {
		score += p.scoreBonus + FileNameBonus
	}

	searchText := strings.ToLower(link.FileName + " " + link.Text + " " + link.Title + " " + link.Context)
	for _, kw := range p.keywords {
		if strings.Contains(searchText, kw) {
			score += KeywordScore
		}
	}
	for _, phrase := range p.linkTextPatterns {
		if strings.Contains(searchText, phrase) {
			score += LinkTextScore
		}
	}

	if token := typeToken(p.label); token != "" && strings.Contains(strings.ToLower(link.FileName), token) {
		score += TypeTokenScore
	}

	return score + p.priority
}

// typeToken returns the first whitespace-delimited word of the lowercased label.
func typeToken(label string) string {
	fields := strings.Fields(strings.ToLower(label))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
