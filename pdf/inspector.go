// Package pdf validates downloaded PDF documents using ledongthuc/pdf.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/fwojciec/docscout"
	pdflib "github.com/ledongthuc/pdf"
)

// Ensure Inspector implements docscout.PDFInspector at compile time.
var _ docscout.PDFInspector = (*Inspector)(nil)

// Inspector checks the PDF signature and reads the page count.
// The signature check is authoritative. The page count is best effort:
// documents the parser cannot read still pass with Pages set to 0.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect validates data and describes the document.
func (i *Inspector) Inspect(data []byte) (*docscout.PDFInfo, error) {
	if !bytes.HasPrefix(data, []byte(docscout.PDFSignature)) {
		return nil, docscout.Errorf(docscout.EINVALIDPDF, "downloaded file is not a valid PDF")
	}

	info := &docscout.PDFInfo{Version: headerVersion(data)}
	if n, err := pageCount(data); err == nil {
		info.Pages = n
	}
	return info, nil
}

// headerVersion returns the version following the signature, e.g. "1.7".
func headerVersion(data []byte) string {
	rest := data[len(docscout.PDFSignature):]
	end := bytes.IndexFunc(rest, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	})
	if end < 0 {
		end = len(rest)
	}
	return string(rest[:end])
}

// pageCount reads the document catalog. The parser panics on some malformed
// input, so panics are reported as errors.
func pageCount(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}
