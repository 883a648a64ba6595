package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docscout"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type errorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	ErrorType  string `json:"errorType,omitempty"`
	URL        string `json:"url,omitempty"`
	PDFURL     string `json:"pdfUrl,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

type matchedDocument struct {
	DocumentType string              `json:"documentType"`
	URL          string              `json:"url"`
	FileName     string              `json:"fileName"`
	Text         string              `json:"text"`
	Title        string              `json:"title"`
	Context      string              `json:"context"`
	MatchScore   int                 `json:"matchScore"`
	Confidence   docscout.Confidence `json:"confidence"`
}

type scrapeResponse struct {
	Success          bool              `json:"success"`
	ID               string            `json:"id"`
	URL              string            `json:"url"`
	TotalPDFLinks    int               `json:"totalPdfLinks"`
	MatchedDocuments []matchedDocument `json:"matchedDocuments"`
	Unmatched        []string          `json:"unmatched"`
	ScrapedAt        time.Time         `json:"scrapedAt"`
}

type downloadResponse struct {
	Success        bool      `json:"success"`
	FileName       string    `json:"fileName"`
	FileSize       int       `json:"fileSize"`
	FileSizeHuman  string    `json:"fileSizeHuman"`
	ContentHash    string    `json:"contentHash"`
	DownloadURL    string    `json:"downloadUrl"`
	ContentType    string    `json:"contentType"`
	LastModified   string    `json:"lastModified"`
	ServerDate     string    `json:"serverDate,omitempty"`
	PageCount      int       `json:"pageCount"`
	PDFVersion     string    `json:"pdfVersion"`
	PDFData        []byte    `json:"pdfData"`
	DownloadedAt   time.Time `json:"downloadedAt"`
	BackendVersion string    `json:"backendVersion"`
}

type documentTypesResponse struct {
	Success       bool     `json:"success"`
	DocumentTypes []string `json:"documentTypes"`
}

func newScrapeResponse(result *docscout.ScrapeResult) *scrapeResponse {
	resp := &scrapeResponse{
		Success:          true,
		ID:               result.ID,
		URL:              result.URL,
		TotalPDFLinks:    result.TotalPDFLinks,
		MatchedDocuments: make([]matchedDocument, 0, len(result.Matches)),
		Unmatched:        result.Unmatched,
		ScrapedAt:        result.ScrapedAt,
	}
	if resp.Unmatched == nil {
		resp.Unmatched = []string{}
	}
	for _, m := range result.Matches {
		resp.MatchedDocuments = append(resp.MatchedDocuments, matchedDocument{
			DocumentType: m.DocumentType,
			URL:          m.URL,
			FileName:     m.FileName,
			Text:         m.Text,
			Title:        m.Title,
			Context:      m.Context,
			MatchScore:   m.Score,
			Confidence:   m.Confidence(),
		})
	}
	return resp
}

// result converts the response back into a domain result.
func (resp *scrapeResponse) result() *docscout.ScrapeResult {
	result := &docscout.ScrapeResult{
		ID:            resp.ID,
		URL:           resp.URL,
		TotalPDFLinks: resp.TotalPDFLinks,
		Matches:       make([]*docscout.ScoredMatch, 0, len(resp.MatchedDocuments)),
		Unmatched:     resp.Unmatched,
		ScrapedAt:     resp.ScrapedAt,
	}
	if result.Unmatched == nil {
		result.Unmatched = []string{}
	}
	for _, d := range resp.MatchedDocuments {
		result.Matches = append(result.Matches, &docscout.ScoredMatch{
			CandidateLink: docscout.CandidateLink{
				URL:      d.URL,
				FileName: d.FileName,
				Text:     d.Text,
				Title:    d.Title,
				Context:  d.Context,
			},
			DocumentType: d.DocumentType,
			Score:        d.MatchScore,
		})
	}
	return result
}

func newDownloadResponse(d *docscout.Download) *downloadResponse {
	return &downloadResponse{
		Success:        true,
		FileName:       d.FileName,
		FileSize:       d.Size,
		FileSizeHuman:  docscout.FormatBytes(int64(d.Size)),
		ContentHash:    d.ContentHash,
		DownloadURL:    d.URL,
		ContentType:    d.ContentType,
		LastModified:   d.LastModified,
		ServerDate:     d.ServerDate,
		PageCount:      d.Info.Pages,
		PDFVersion:     d.Info.Version,
		PDFData:        d.Data,
		DownloadedAt:   d.DownloadedAt,
		BackendVersion: Version,
	}
}

// download converts the response back into a domain download.
func (resp *downloadResponse) download() *docscout.Download {
	return &docscout.Download{
		FileName:     resp.FileName,
		URL:          resp.DownloadURL,
		Size:         resp.FileSize,
		ContentHash:  resp.ContentHash,
		ContentType:  resp.ContentType,
		LastModified: resp.LastModified,
		ServerDate:   resp.ServerDate,
		Info: docscout.PDFInfo{
			Version: resp.PDFVersion,
			Pages:   resp.PageCount,
		},
		Data:         resp.PDFData,
		DownloadedAt: resp.DownloadedAt,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &healthResponse{
		Status:    "OK",
		Timestamp: s.now().UTC(),
		Service:   ServiceName,
		Version:   Version,
		Endpoints: map[string]string{
			"health":        RouteHealth,
			"scrape":        RouteScrape,
			"downloadPdf":   RouteDownloadPDF,
			"documentTypes": RouteDocumentTypes,
		},
	})
}

func (s *Server) handleDocumentTypes(w http.ResponseWriter, r *http.Request) {
	types := s.DocumentTypes
	if types == nil {
		types = []string{}
	}
	writeJSON(w, http.StatusOK, &documentTypesResponse{Success: true, DocumentTypes: types})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req docscout.ScrapeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, &errorResponse{})
		return
	}
	if req.DocumentTypes == nil {
		req.DocumentTypes = []string{}
	}

	result, err := s.Scraper.Scrape(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err, &errorResponse{
			URL:       req.URL,
			ErrorType: ErrorType(docscout.ErrorCode(err), ErrorTypeUnknown),
		})
		return
	}

	writeJSON(w, http.StatusOK, newScrapeResponse(result))
}

func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	var req docscout.DownloadRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, &errorResponse{})
		return
	}

	d, err := s.Downloader.Download(r.Context(), &req)
	if err != nil {
		code := docscout.ErrorCode(err)
		s.writeError(w, r, err, &errorResponse{
			PDFURL:     req.URL,
			ErrorType:  ErrorType(code, ErrorTypeDownload),
			StatusCode: upstreamStatus(code),
		})
		return
	}

	w.Header().Set("ETag", fmt.Sprintf(`"%016x"`, xxhash.Sum64(d.Data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	writeJSON(w, http.StatusOK, newDownloadResponse(d))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		s.handleNotFound(w, r)
		return
	}
	s.Metrics.ServeHTTP(w, r)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, &errorResponse{Error: "Not found"})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, &errorResponse{Error: "Method not allowed"})
}

// writeError fills resp with the error message and writes it with the
// status implied by the error code. Internal errors are logged and their
// messages hidden.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, resp *errorResponse) {
	code := docscout.ErrorCode(err)
	resp.Success = false
	resp.Error = docscout.ErrorMessage(err)
	if code == docscout.EINTERNAL {
		s.logger().Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, errorStatus(code), resp)
}

// errorStatus returns the response status for an error code. Failures
// reaching remote sites are reported as 500.
func errorStatus(code string) int {
	if code == docscout.EINVALID {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil // empty body; the request's own validation reports missing fields
	} else if err != nil {
		return docscout.Errorf(docscout.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
