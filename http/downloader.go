package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/docscout"
)

// Download timeouts.
const (
	DefaultDownloadTimeout = 40 * time.Second
	DefaultHeadTimeout     = 10 * time.Second
)

// Ensure Downloader implements docscout.Downloader at compile time.
var _ docscout.Downloader = (*Downloader)(nil)

// Downloader fetches PDF documents over HTTP and validates them with a
// docscout.PDFInspector.
type Downloader struct {
	client      *http.Client
	inspector   docscout.PDFInspector
	timeout     time.Duration
	headTimeout time.Duration
	maxSize     int64
	userAgent   string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloadTimeout sets the timeout of the GET request.
func WithDownloadTimeout(d time.Duration) DownloaderOption {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// WithHeadTimeout sets the timeout of the preliminary HEAD request.
func WithHeadTimeout(d time.Duration) DownloaderOption {
	return func(dl *Downloader) {
		dl.headTimeout = d
	}
}

// WithMaxSize sets the largest accepted PDF in bytes.
// Defaults to docscout.DefaultMaxPDFSize.
func WithMaxSize(n int64) DownloaderOption {
	return func(dl *Downloader) {
		dl.maxSize = n
	}
}

// WithDownloadUserAgent overrides DefaultUserAgent.
func WithDownloadUserAgent(ua string) DownloaderOption {
	return func(dl *Downloader) {
		dl.userAgent = ua
	}
}

// NewDownloader creates a Downloader that validates content with inspector.
func NewDownloader(inspector docscout.PDFInspector, opts ...DownloaderOption) *Downloader {
	dl := &Downloader{
		client:      &http.Client{},
		inspector:   inspector,
		timeout:     DefaultDownloadTimeout,
		headTimeout: DefaultHeadTimeout,
		maxSize:     docscout.DefaultMaxPDFSize,
		userAgent:   DefaultUserAgent,
		Now:         time.Now,
	}
	for _, opt := range opts {
		opt(dl)
	}
	return dl
}

// Download fetches and validates the PDF at req.URL.
//
// A HEAD request is sent first; a declared Content-Length above the size
// limit fails with ETOOLARGE, while a failed HEAD is ignored. The body of the
// GET request is read up to the size limit.
func (dl *Downloader) Download(ctx context.Context, req *docscout.DownloadRequest) (*docscout.Download, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	u, err := url.Parse(req.URL)
	if err != nil || u.Host == "" {
		return nil, docscout.Errorf(docscout.EINVALID, "invalid PDF URL: %q", req.URL)
	}

	if size := dl.declaredSize(ctx, req.URL); size > dl.maxSize {
		return nil, dl.tooLarge(size)
	}

	ctx, cancel := context.WithTimeout(ctx, dl.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "invalid PDF URL %q: %v", req.URL, err)
	}
	httpReq.Header.Set("User-Agent", dl.userAgent)
	httpReq.Header.Set("Accept", "application/pdf,*/*")
	httpReq.Header.Set("Referer", u.Scheme+"://"+u.Host)

	resp, err := dl.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err, req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, req.URL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, dl.maxSize+1))
	if err != nil {
		return nil, classifyError(err, req.URL)
	}
	if int64(len(data)) > dl.maxSize {
		return nil, dl.tooLarge(int64(len(data)))
	}

	info, err := dl.inspector.Inspect(data)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	now := dl.Now()

	d := &docscout.Download{
		FileName:     req.FileName,
		URL:          req.URL,
		Size:         len(data),
		ContentHash:  hex.EncodeToString(sum[:]),
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ServerDate:   resp.Header.Get("Date"),
		Info:         *info,
		Data:         data,
		DownloadedAt: now,
	}
	if d.FileName == "" {
		d.FileName = docscout.FileNameFromURL(req.URL)
	}
	if d.ContentType == "" {
		d.ContentType = "application/pdf"
	}
	if d.LastModified == "" {
		d.LastModified = now.UTC().Format(time.RFC3339)
	}
	return d, nil
}

// declaredSize returns the Content-Length announced by a HEAD request, or 0.
func (dl *Downloader) declaredSize(ctx context.Context, rawURL string) int64 {
	ctx, cancel := context.WithTimeout(ctx, dl.headTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("User-Agent", dl.userAgent)
	req.Header.Set("Accept", "application/pdf,*/*")

	resp, err := dl.client.Do(req)
	if err != nil {
		return 0
	}
	resp.Body.Close()

	n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (dl *Downloader) tooLarge(size int64) error {
	return docscout.Errorf(docscout.ETOOLARGE, "file too large: %s (limit %s)",
		docscout.FormatBytes(size), docscout.FormatBytes(dl.maxSize))
}
