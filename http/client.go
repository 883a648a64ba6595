package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/docscout"
)

var (
	_ docscout.Scraper    = (*Client)(nil)
	_ docscout.Downloader = (*Client)(nil)
)

// Client calls a remote docscout API server.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient returns a Client for the server at baseURL. Callers bound
// request time through the context.
func NewClient(baseURL string) *Client {
	return &Client{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Scrape asks the server to scrape req.URL.
func (c *Client) Scrape(ctx context.Context, req *docscout.ScrapeRequest) (*docscout.ScrapeResult, error) {
	var resp scrapeResponse
	if err := c.post(ctx, RouteScrape, req, &resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// Download asks the server to download and validate a PDF.
func (c *Client) Download(ctx context.Context, req *docscout.DownloadRequest) (*docscout.Download, error) {
	var resp downloadResponse
	if err := c.post(ctx, RouteDownloadPDF, req, &resp); err != nil {
		return nil, err
	}
	return resp.download(), nil
}

// DocumentTypes returns the document types supported by the server.
func (c *Client) DocumentTypes(ctx context.Context) ([]string, error) {
	var resp documentTypesResponse
	if err := c.do(ctx, http.MethodGet, RouteDocumentTypes, nil, &resp); err != nil {
		return nil, err
	}
	return resp.DocumentTypes, nil
}

func (c *Client) post(ctx context.Context, route string, body, v any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, route, bytes.NewReader(buf), v)
}

func (c *Client) do(ctx context.Context, method, route string, body io.Reader, v any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, body)
	if err != nil {
		return docscout.Errorf(docscout.EINVALID, "invalid server URL %q: %v", c.baseURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyError(err, c.baseURL+route)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeErrorResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s response: %w", route, err)
	}
	return nil
}

// decodeErrorResponse rebuilds the application error reported by the server.
func decodeErrorResponse(resp *http.Response) error {
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
		return docscout.Errorf(docscout.EUPSTREAM, "server returned HTTP %d", resp.StatusCode)
	}

	code := docscout.EINTERNAL
	switch {
	case e.ErrorType != "":
		code = errorCode(e.ErrorType)
	case resp.StatusCode == http.StatusBadRequest:
		code = docscout.EINVALID
	}
	return docscout.Errorf(code, "%s", e.Error)
}
