package docscout

// CandidateLink is a hyperlink extracted from a page that is suspected of
// referencing a PDF document, enriched with its textual surroundings.
type CandidateLink struct {
	// URL is the absolute URL, resolved against the page URL.
	URL string `json:"url"`

	// Href is the raw attribute value as found in the page.
	Href string `json:"href,omitempty"`

	// FileName is the last path segment of URL, percent-decoded.
	FileName string `json:"fileName"`

	// Text is the trimmed visible text of the anchor.
	Text string `json:"text"`

	// Title is the anchor's title attribute, if any.
	Title string `json:"title"`

	// ParentText is the trimmed text of the anchor's parent element.
	ParentText string `json:"parentText,omitempty"`

	// Context joins text, title and parent text, lowercased for searching.
	Context string `json:"context"`
}

// LinkExtractor extracts candidate PDF links from HTML.
type LinkExtractor interface {
	// ExtractCandidates parses HTML and returns every PDF-like anchor in
	// document order. The baseURL is used to resolve relative URLs.
	// Duplicates are preserved.
	ExtractCandidates(html string, baseURL string) ([]CandidateLink, error)
}
