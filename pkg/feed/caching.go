package feed

import (
	"context"
	"log"
	"sync"

	"github.com/pario-ai/cinecache/pkg/models"
)

// CachingLoader writes every successfully loaded page to a Cache in the
// background. The caller always gets the decoratee's result as is.
type CachingLoader struct {
	decoratee Loader
	cache     Cache
	onSave    func(error)

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// CachingOption configures a CachingLoader.
type CachingOption func(*CachingLoader)

// WithSaveHook registers fn to observe the outcome of each background save.
func WithSaveHook(fn func(error)) CachingOption {
	return func(c *CachingLoader) { c.onSave = fn }
}

// NewCachingLoader decorates decoratee so its results populate cache.
func NewCachingLoader(decoratee Loader, cache Cache, opts ...CachingOption) *CachingLoader {
	c := &CachingLoader{decoratee: decoratee, cache: cache}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the decoratee's result without waiting on the cache.
func (c *CachingLoader) Load(ctx context.Context) (*models.Page, error) {
	page, err := c.decoratee.Load(ctx)
	if err == nil && page != nil {
		c.save(context.WithoutCancel(ctx), *page)
	}
	return page, err
}

func (c *CachingLoader) save(ctx context.Context, page models.Page) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		err := c.cache.Save(ctx, page)
		if err != nil {
			log.Printf("feed: cache save failed: %v", err)
		}
		if c.onSave != nil {
			c.onSave(err)
		}
	}()
}

// Wait blocks until in-flight saves finish.
func (c *CachingLoader) Wait() {
	c.wg.Wait()
}

// Close stops scheduling new saves and waits for in-flight ones.
func (c *CachingLoader) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
	return nil
}
