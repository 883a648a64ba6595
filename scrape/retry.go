package scrape

import (
	"context"
	"time"

	"github.com/fwojciec/docscout"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the delays between page fetch attempts:
// 3 attempts, 1s apart.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 1 * time.Second}
}

// FetchWithRetry fetches a URL with DefaultRetryDelays.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger LogFunc) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays attempts the fetch once plus once per delay. Errors
// that cannot succeed on retry (EINVALID, ENOTFOUND, EFORBIDDEN) are
// returned immediately. The logger, if provided, is called for each retry.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || isPermanent(err) {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if logger != nil {
			logger("retry %s (attempt %d/%d): %v", url, attempt+2, maxAttempts, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}

func isPermanent(err error) bool {
	switch docscout.ErrorCode(err) {
	case docscout.EINVALID, docscout.ENOTFOUND, docscout.EFORBIDDEN:
		return true
	}
	return false
}
