package docscout

// Confidence is a coarse classification of a match score.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Confidence thresholds. A score at a threshold belongs to the higher level.
const (
	HighConfidenceScore   = 40
	MediumConfidenceScore = 20
)

// ConfidenceLevel classifies a match score.
func ConfidenceLevel(score int) Confidence {
	switch {
	case score >= HighConfidenceScore:
		return ConfidenceHigh
	case score >= MediumConfidenceScore:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ScoredMatch is the best candidate link found for one document type.
type ScoredMatch struct {
	CandidateLink

	DocumentType string `json:"documentType"`
	Score        int    `json:"matchScore"`
}

// Confidence returns the confidence level of the match score.
func (m *ScoredMatch) Confidence() Confidence {
	return ConfidenceLevel(m.Score)
}

// Matcher selects the candidate that best matches a document type.
type Matcher interface {
	// FindBestMatch scores every candidate against the document type and
	// returns the highest scoring one. Among equal scores the earliest
	// candidate wins.
	//
	// Returns (nil, nil) when no candidate scores above zero.
	// Returns ENOTFOUND when the document type has no pattern.
	FindBestMatch(candidates []CandidateLink, documentType string) (*ScoredMatch, error)

	// DocumentTypes returns the supported labels in table order.
	DocumentTypes() []string
}
