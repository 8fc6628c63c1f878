// Package feed composes page loaders into the network-first pipeline.
package feed

import (
	"context"

	"github.com/pario-ai/cinecache/pkg/models"
)

// Loader loads the current page. A nil page with a nil error means there
// is nothing to show.
type Loader interface {
	Load(ctx context.Context) (*models.Page, error)
}

// Cache persists a loaded page.
type Cache interface {
	Save(ctx context.Context, page models.Page) error
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*models.Page, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (*models.Page, error) {
	return f(ctx)
}

// CacheFunc adapts a function to Cache.
type CacheFunc func(ctx context.Context, page models.Page) error

// Save calls f.
func (f CacheFunc) Save(ctx context.Context, page models.Page) error {
	return f(ctx, page)
}
