package mock

import (
	"context"

	"github.com/fwojciec/docscout"
)

var _ docscout.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of docscout.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, req *docscout.DownloadRequest) (*docscout.Download, error)
}

func (d *Downloader) Download(ctx context.Context, req *docscout.DownloadRequest) (*docscout.Download, error) {
	return d.DownloadFn(ctx, req)
}

var _ docscout.PDFInspector = (*PDFInspector)(nil)

// PDFInspector is a mock implementation of docscout.PDFInspector.
type PDFInspector struct {
	InspectFn func(data []byte) (*docscout.PDFInfo, error)
}

func (i *PDFInspector) Inspect(data []byte) (*docscout.PDFInfo, error) {
	return i.InspectFn(data)
}
