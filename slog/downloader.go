package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docscout"
)

// Ensure LoggingDownloader implements docscout.Downloader.
var _ docscout.Downloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a Downloader with logging.
type LoggingDownloader struct {
	next   docscout.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next docscout.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the operation.
func (d *LoggingDownloader) Download(ctx context.Context, req *docscout.DownloadRequest) (dl *docscout.Download, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", req.URL,
			"duration", time.Since(begin),
		}
		if req.ExpectedSize > 0 {
			attrs = append(attrs, "expected", docscout.FormatBytes(req.ExpectedSize))
		}
		if dl != nil {
			attrs = append(attrs,
				"file", dl.FileName,
				"size", docscout.FormatBytes(int64(dl.Size)),
				"pages", dl.Info.Pages,
			)
		}
		attrs = append(attrs, "err", err)
		d.logger.Info("download", attrs...)
	}(time.Now())
	return d.next.Download(ctx, req)
}
