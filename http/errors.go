package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/fwojciec/docscout"
)

// Error types reported to API clients.
const (
	ErrorTypeDNS               = "DNS_ERROR"
	ErrorTypeConnectionRefused = "CONNECTION_REFUSED"
	ErrorTypeTimeout           = "TIMEOUT_ERROR"
	ErrorTypeNotFound          = "FILE_NOT_FOUND"
	ErrorTypeForbidden         = "ACCESS_FORBIDDEN"
	ErrorTypeTooLarge          = "FILE_TOO_LARGE"
	ErrorTypeInvalidPDF        = "INVALID_PDF"
	ErrorTypeInvalidRequest    = "INVALID_REQUEST"
	ErrorTypeDownload          = "DOWNLOAD_ERROR"
	ErrorTypeUnknown           = "UNKNOWN_ERROR"
)

var errorTypes = map[string]string{
	docscout.EDNS:         ErrorTypeDNS,
	docscout.ECONNREFUSED: ErrorTypeConnectionRefused,
	docscout.ETIMEOUT:     ErrorTypeTimeout,
	docscout.ENOTFOUND:    ErrorTypeNotFound,
	docscout.EFORBIDDEN:   ErrorTypeForbidden,
	docscout.ETOOLARGE:    ErrorTypeTooLarge,
	docscout.EINVALIDPDF:  ErrorTypeInvalidPDF,
	docscout.EINVALID:     ErrorTypeInvalidRequest,
	docscout.EUPSTREAM:    ErrorTypeDownload,
}

// ErrorType maps an application error code to the error type reported to
// API clients. Unmapped codes return fallback.
func ErrorType(code, fallback string) string {
	if t, ok := errorTypes[code]; ok {
		return t
	}
	return fallback
}

// errorCode is the inverse of ErrorType.
func errorCode(errorType string) string {
	for code, t := range errorTypes {
		if t == errorType {
			return code
		}
	}
	return docscout.EINTERNAL
}

// upstreamStatus returns the remote HTTP status implied by an error code.
func upstreamStatus(code string) int {
	switch code {
	case docscout.ENOTFOUND:
		return http.StatusNotFound
	case docscout.EFORBIDDEN:
		return http.StatusForbidden
	}
	return 0
}

// classifyError converts a transport error into an application error.
// Application errors and context cancellation pass through unchanged.
func classifyError(err error, url string) error {
	if err == nil {
		return nil
	}

	var appErr *docscout.Error
	if errors.As(err, &appErr) || errors.Is(err, context.Canceled) {
		return err
	}

	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.As(err, &dnsErr):
		return docscout.Errorf(docscout.EDNS, "cannot resolve host for %s: %v", url, err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return docscout.Errorf(docscout.ECONNREFUSED, "connection refused for %s", url)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return docscout.Errorf(docscout.ETIMEOUT, "timeout fetching %s", url)
	}
	return docscout.Errorf(docscout.EUPSTREAM, "fetching %s: %v", url, err)
}

// statusError converts a non-200 response status into an application error.
func statusError(status int, url string) error {
	msg := fmt.Sprintf("HTTP %d for %s", status, url)
	switch status {
	case http.StatusNotFound:
		return docscout.Errorf(docscout.ENOTFOUND, "%s", msg)
	case http.StatusForbidden:
		return docscout.Errorf(docscout.EFORBIDDEN, "%s", msg)
	}
	return docscout.Errorf(docscout.EUPSTREAM, "%s", msg)
}
