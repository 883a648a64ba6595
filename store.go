package docscout

import "context"

// DocumentStore persists downloaded documents as one atomic batch.
// Save may be called concurrently.
type DocumentStore interface {
	// Save stages the download under documentType.
	Save(ctx context.Context, documentType string, d *Download) error
	// Commit publishes every staged document, replacing any previous batch.
	Commit() error
	// Abort discards every staged document.
	Abort() error
}
