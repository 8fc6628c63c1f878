package feed

import (
	"context"

	"github.com/pario-ai/cinecache/pkg/models"
)

// LocalCache is a loader that can also store pages, such as
// cache.LocalLoader.
type LocalCache interface {
	Loader
	Cache
}

// Pipeline loads from the network first, caching each result, and falls
// back to the local cache when the network fails.
//
// A network failure with no fresh cache yields a nil page and nil error,
// the same outcome as an empty catalog.
type Pipeline struct {
	loader  Loader
	caching *CachingLoader
}

// NewPipeline wires remote and local into a Pipeline.
func NewPipeline(remote Loader, local LocalCache, opts ...CachingOption) *Pipeline {
	caching := NewCachingLoader(remote, local, opts...)
	return &Pipeline{
		loader:  NewFallback(caching, local),
		caching: caching,
	}
}

// Load implements Loader.
func (p *Pipeline) Load(ctx context.Context) (*models.Page, error) {
	return p.loader.Load(ctx)
}

// Close waits for pending cache writes.
func (p *Pipeline) Close() error {
	return p.caching.Close()
}
