package feed

import (
	"context"
	"log"

	"github.com/pario-ai/cinecache/pkg/models"
)

// Fallback tries primary and, only if it fails, fallback.
type Fallback struct {
	primary  Loader
	fallback Loader
}

// NewFallback creates a Fallback over two loaders.
func NewFallback(primary, fallback Loader) *Fallback {
	return &Fallback{primary: primary, fallback: fallback}
}

// Load returns the primary result on success. Otherwise the primary error
// is dropped and the fallback result returned.
func (f *Fallback) Load(ctx context.Context) (*models.Page, error) {
	page, err := f.primary.Load(ctx)
	if err == nil {
		return page, nil
	}
	log.Printf("feed: primary loader failed, using fallback: %v", err)
	return f.fallback.Load(ctx)
}
