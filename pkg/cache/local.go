package cache

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/pario-ai/cinecache/pkg/models"
)

// LocalLoader serves and persists pages through a Store, discarding data
// the policy considers stale.
type LocalLoader struct {
	store   Store
	now     func() time.Time
	policy  Policy
	hits    atomic.Int64
	misses  atomic.Int64
	expired atomic.Int64
}

// LocalOption configures a LocalLoader.
type LocalOption func(*LocalLoader)

// WithPolicy overrides the default freshness policy.
func WithPolicy(p Policy) LocalOption {
	return func(l *LocalLoader) { l.policy = p }
}

// NewLocalLoader creates a LocalLoader over store. now supplies the current
// time; nil means time.Now.
func NewLocalLoader(store Store, now func() time.Time, opts ...LocalOption) *LocalLoader {
	if now == nil {
		now = time.Now
	}
	l := &LocalLoader{store: store, now: now, policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Save replaces the cached page. The insert is skipped if the delete fails,
// so an interrupted save leaves the store empty rather than half written.
func (l *LocalLoader) Save(ctx context.Context, page models.Page) error {
	ts := l.now()
	if err := l.store.DeleteCachedPage(ctx); err != nil {
		return err
	}
	return l.store.Insert(ctx, page, ts)
}

// Load returns the cached page if it is fresh. Missing and stale slots
// yield a nil page and a nil error.
func (l *LocalLoader) Load(ctx context.Context) (*models.Page, error) {
	now := l.now()
	cached, err := l.store.Retrieve(ctx)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		l.misses.Add(1)
		return nil, nil
	}
	if !l.policy.IsFresh(cached.Timestamp, now) {
		l.expired.Add(1)
		return nil, nil
	}
	l.hits.Add(1)
	page := cached.Page
	return &page, nil
}

// Validate deletes the slot when it cannot be read or has expired.
func (l *LocalLoader) Validate(ctx context.Context) {
	now := l.now()
	cached, err := l.store.Retrieve(ctx)
	switch {
	case err != nil:
		log.Printf("cache: unreadable entry, deleting: %v", err)
	case cached != nil && !l.policy.IsFresh(cached.Timestamp, now):
		log.Printf("cache: entry from %s expired, deleting", cached.Timestamp.Format(time.RFC3339))
	default:
		return
	}
	if err := l.store.DeleteCachedPage(ctx); err != nil {
		log.Printf("cache: delete during validation: %v", err)
	}
}

// ValidateAsync runs Validate in the background.
func (l *LocalLoader) ValidateAsync() {
	go l.Validate(context.Background())
}

// Clear removes the cached page regardless of its age.
func (l *LocalLoader) Clear(ctx context.Context) error {
	return l.store.DeleteCachedPage(ctx)
}

// Stats returns the current slot state and read counters.
func (l *LocalLoader) Stats(ctx context.Context) (models.CacheStats, error) {
	now := l.now()
	cached, err := l.store.Retrieve(ctx)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	stats := models.CacheStats{
		Hits:    l.hits.Load(),
		Misses:  l.misses.Load(),
		Expired: l.expired.Load(),
	}
	if cached != nil {
		stats.Present = true
		stats.Fresh = l.policy.IsFresh(cached.Timestamp, now)
		stats.Timestamp = cached.Timestamp
		stats.Age = now.Sub(cached.Timestamp)
		stats.Page = cached.Page.Page
		stats.Movies = len(cached.Page.Results)
	}
	return stats, nil
}
