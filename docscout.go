// Package docscout finds regulatory and commercial PDF documents on web pages.
// Given a page URL and a list of document-type labels (e.g. "Statuts",
// "Rapport Annuel"), it extracts candidate PDF links from the page, scores
// every link against per-type heuristic patterns, and returns the best link
// for each requested type. A companion service downloads a PDF and validates
// that it is genuine.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, prometheus/).
package docscout
