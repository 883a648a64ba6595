package slog

import (
	"log/slog"

	"github.com/fwojciec/docscout"
)

// Ensure LoggingMatcher implements docscout.Matcher.
var _ docscout.Matcher = (*LoggingMatcher)(nil)

// LoggingMatcher wraps a Matcher and logs the outcome of every match.
type LoggingMatcher struct {
	next   docscout.Matcher
	logger *slog.Logger
}

// NewLoggingMatcher creates a new LoggingMatcher.
func NewLoggingMatcher(next docscout.Matcher, logger *slog.Logger) *LoggingMatcher {
	return &LoggingMatcher{next: next, logger: logger}
}

// FindBestMatch delegates to the wrapped matcher and logs the result.
func (m *LoggingMatcher) FindBestMatch(candidates []docscout.CandidateLink, documentType string) (*docscout.ScoredMatch, error) {
	match, err := m.next.FindBestMatch(candidates, documentType)
	switch {
	case docscout.ErrorCode(err) == docscout.ENOTFOUND:
		m.logger.Warn("unknown document type", "type", documentType)
	case err != nil:
		m.logger.Error("match failed", "type", documentType, "err", err)
	case match == nil:
		m.logger.Info("no match",
			"type", documentType,
			"candidates", len(candidates),
		)
	default:
		m.logger.Info("match found",
			"type", documentType,
			"file", match.FileName,
			"score", match.Score,
			"confidence", string(match.Confidence()),
		)
	}
	return match, err
}

// DocumentTypes delegates to the wrapped matcher.
func (m *LoggingMatcher) DocumentTypes() []string {
	return m.next.DocumentTypes()
}
