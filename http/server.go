package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/docscout"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is forcibly closed.
const ShutdownTimeout = 10 * time.Second

// Service identification reported by the health endpoint.
const (
	ServiceName = "docscout"
	Version     = "1.0.3"
)

// API routes.
const (
	RouteHealth        = "/api/health"
	RouteScrape        = "/api/scrape"
	RouteDownloadPDF   = "/api/download-pdf"
	RouteDocumentTypes = "/api/document-types"
	RouteMetrics       = "/metrics"
)

// CORS settings applied when Server.CORS is enabled.
const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, Accept, Origin, X-Requested-With"
	corsMaxAge       = 86400
)

// Server is the JSON API exposing the scraper and the PDF downloader.
//
// Fields are read on every request and may be set after NewServer returns,
// but not while the server is handling requests.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Addr is the listen address, e.g. ":8080".
	Addr string

	Scraper    docscout.Scraper
	Downloader docscout.Downloader

	// DocumentTypes is served by RouteDocumentTypes.
	DocumentTypes []string

	// CORS enables permissive cross-origin headers.
	CORS bool

	// Metrics, if set, is served on RouteMetrics.
	Metrics http.Handler

	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewServer returns a Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{},
		CORS:   true,
		Now:    time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.cors)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get(RouteHealth, s.handleHealth)
	r.Get(RouteDocumentTypes, s.handleDocumentTypes)
	r.Post(RouteScrape, s.handleScrape)
	r.Post(RouteDownloadPDF, s.handleDownloadPDF)
	r.Get(RouteMetrics, s.handleMetrics)

	s.router = r
	s.server.Handler = r
	return s
}

// Open starts listening on Addr and serves requests in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// ServeHTTP dispatches the request to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// logRequests logs one line per request once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger().Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// cors sets cross-origin headers and answers preflight requests.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.CORS {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
		h.Set("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
