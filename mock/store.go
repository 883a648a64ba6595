package mock

import (
	"context"

	"github.com/fwojciec/docscout"
)

var _ docscout.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of docscout.DocumentStore.
type DocumentStore struct {
	SaveFn   func(ctx context.Context, documentType string, d *docscout.Download) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *DocumentStore) Save(ctx context.Context, documentType string, d *docscout.Download) error {
	return s.SaveFn(ctx, documentType, d)
}

func (s *DocumentStore) Commit() error {
	return s.CommitFn()
}

func (s *DocumentStore) Abort() error {
	return s.AbortFn()
}
