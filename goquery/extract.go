// Package goquery extracts candidate PDF links from HTML using goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docscout"
)

// Ensure Extractor implements docscout.LinkExtractor at compile time.
var _ docscout.LinkExtractor = (*Extractor)(nil)

// Extractor finds anchors that look like links to PDF documents.
// An anchor qualifies when its href contains ".pdf" or its text contains
// "pdf", both case-insensitively. Any scheme qualifies, so TotalPDFLinks
// counts javascript: and mailto: anchors too; downloading them fails later.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractCandidates parses HTML and returns candidate links in document order.
func (e *Extractor) ExtractCandidates(html string, baseURL string) ([]docscout.CandidateLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "failed to parse HTML: %v", err)
	}

	var links []docscout.CandidateLink
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		text := strings.TrimSpace(sel.Text())
		if !strings.Contains(strings.ToLower(href), ".pdf") && !strings.Contains(strings.ToLower(text), "pdf") {
			return
		}

		title, _ := sel.Attr("title")
		title = strings.TrimSpace(title)
		parentText := strings.TrimSpace(sel.Parent().Text())
		resolved := resolveURL(base, href)

		links = append(links, docscout.CandidateLink{
			URL:        resolved,
			Href:       href,
			FileName:   docscout.FileNameFromURL(resolved),
			Text:       text,
			Title:      title,
			ParentText: parentText,
			Context:    strings.ToLower(text + " " + title + " " + parentText),
		})
	})

	return links, nil
}

// resolveURL resolves href against base. Unparseable hrefs are returned as is.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
