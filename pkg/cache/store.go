package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pario-ai/cinecache/pkg/models"
)

// Store persists a single key-less cache slot.
type Store interface {
	// DeleteCachedPage removes the slot. Deleting an empty store succeeds.
	DeleteCachedPage(ctx context.Context) error
	// Insert replaces any existing slot with page stamped at ts.
	Insert(ctx context.Context, page models.Page, ts time.Time) error
	// Retrieve returns the slot, or nil when the store is empty.
	Retrieve(ctx context.Context) (*models.CachedPage, error)
}

// StoreError is an I/O or decode failure at the persistence boundary.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err as a StoreError for op. A nil err yields nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
