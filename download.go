package docscout

import (
	"context"
	"time"
)

// DefaultMaxPDFSize is the largest PDF a Downloader accepts by default.
const DefaultMaxPDFSize = 50 * 1024 * 1024

// DownloadRequest identifies a PDF to download.
type DownloadRequest struct {
	URL string `json:"pdfUrl"`

	// FileName overrides the name derived from the URL.
	FileName string `json:"fileName,omitempty"`

	// ExpectedSize is advisory and only reported in logs.
	ExpectedSize int64 `json:"expectedSize,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
func (r *DownloadRequest) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "PDF URL is required")
	}
	return nil
}

// Download is a validated PDF and the metadata gathered while fetching it.
type Download struct {
	FileName     string
	URL          string
	Size         int
	ContentHash  string // sha256, hex encoded
	ContentType  string
	LastModified string
	ServerDate   string
	Info         PDFInfo
	Data         []byte
	DownloadedAt time.Time
}

// Downloader downloads and validates PDF documents.
type Downloader interface {
	// Download fetches the PDF. Failures carry one of EDNS, ECONNREFUSED,
	// ETIMEOUT, ENOTFOUND, EFORBIDDEN, ETOOLARGE, EINVALIDPDF or EUPSTREAM.
	Download(ctx context.Context, req *DownloadRequest) (*Download, error)
}

// PDFSignature is the magic prefix of every PDF file.
const PDFSignature = "%PDF-"

// PDFInfo describes a validated PDF.
type PDFInfo struct {
	// Version is the header version, e.g. "1.7".
	Version string

	// Pages is the page count, or 0 when the document structure could not
	// be read.
	Pages int
}

// PDFInspector validates PDF content.
type PDFInspector interface {
	// Inspect returns EINVALIDPDF if data does not start with PDFSignature.
	Inspect(data []byte) (*PDFInfo, error)
}
