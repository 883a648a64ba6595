package docscout

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// DefaultFileName is used when a URL has no usable last path segment.
const DefaultFileName = "document.pdf"

// FileNameFromURL returns the percent-decoded last path segment of rawURL.
func FileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.LastIndex(rawURL, "/"); i >= 0 && i < len(rawURL)-1 {
			return rawURL[i+1:]
		}
		return DefaultFileName
	}
	// u.Path is already decoded.
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" || strings.HasSuffix(u.Path, "/") {
		return DefaultFileName
	}
	return name
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
