package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pario-ai/cinecache/pkg/models"
)

var (
	errPrimary  = errors.New("primary error")
	errFallback = errors.New("fallback error")
)

func stubLoader(page *models.Page, err error) *countingLoader {
	return &countingLoader{page: page, err: err}
}

type countingLoader struct {
	mu    sync.Mutex
	calls int
	page  *models.Page
	err   error
}

func (l *countingLoader) Load(ctx context.Context) (*models.Page, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.page, l.err
}

func (l *countingLoader) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type cacheSpy struct {
	mu    sync.Mutex
	saved []models.Page
	err   error
	block chan struct{}
}

func (c *cacheSpy) Save(ctx context.Context, page models.Page) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved = append(c.saved, page)
	return c.err
}

func (c *cacheSpy) savedPages() []models.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Page(nil), c.saved...)
}

func uniquePage(n int) *models.Page {
	return &models.Page{
		Page:    n,
		Results: []models.Movie{{ID: n, Title: "movie", GenreIDs: []int{1, 2}}},
	}
}

// brokenStore fails every operation with errFallback.
type brokenStore struct{}

func (brokenStore) DeleteCachedPage(ctx context.Context) error { return errFallback }

func (brokenStore) Insert(ctx context.Context, page models.Page, ts time.Time) error {
	return errFallback
}

func (brokenStore) Retrieve(ctx context.Context) (*models.CachedPage, error) {
	return nil, errFallback
}
