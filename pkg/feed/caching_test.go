package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/cinecache/pkg/models"
)

func TestCachingLoaderDeliversDecorateeSuccess(t *testing.T) {
	page := uniquePage(1)
	cache := &cacheSpy{}
	sut := NewCachingLoader(stubLoader(page, nil), cache)

	got, err := sut.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, page, got)

	sut.Wait()
	saved := cache.savedPages()
	require.Len(t, saved, 1)
	assert.True(t, page.Equal(saved[0]))
}

func TestCachingLoaderDeliversDecorateeFailureWithoutSaving(t *testing.T) {
	cache := &cacheSpy{}
	sut := NewCachingLoader(stubLoader(nil, errPrimary), cache)

	got, err := sut.Load(context.Background())
	assert.ErrorIs(t, err, errPrimary)
	assert.Nil(t, got)

	sut.Wait()
	assert.Empty(t, cache.savedPages())
}

func TestCachingLoaderIgnoresCacheErrors(t *testing.T) {
	page := uniquePage(2)
	saveErrs := make(chan error, 1)
	cache := &cacheSpy{err: errors.New("disk full")}
	sut := NewCachingLoader(stubLoader(page, nil), cache, WithSaveHook(func(err error) { saveErrs <- err }))

	got, err := sut.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, page, got)

	select {
	case err := <-saveErrs:
		assert.EqualError(t, err, "disk full")
	case <-time.After(time.Second):
		t.Fatal("save hook never called")
	}
}

func TestCachingLoaderDoesNotWaitForCache(t *testing.T) {
	cache := &cacheSpy{block: make(chan struct{})}
	sut := NewCachingLoader(stubLoader(uniquePage(1), nil), cache)

	done := make(chan struct{})
	go func() {
		_, _ = sut.Load(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("load blocked on cache save")
	}
	assert.Empty(t, cache.savedPages())

	close(cache.block)
	sut.Wait()
	assert.Len(t, cache.savedPages(), 1)
}

func TestCachingLoaderSaveSurvivesCallerCancel(t *testing.T) {
	cache := &cacheSpy{}
	var saveCtxErr error
	sut := NewCachingLoader(stubLoader(uniquePage(1), nil), CacheFunc(func(ctx context.Context, p models.Page) error {
		saveCtxErr = ctx.Err()
		return cache.Save(ctx, p)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	_, err := sut.Load(ctx)
	cancel()
	require.NoError(t, err)

	sut.Wait()
	assert.NoError(t, saveCtxErr)
	assert.Len(t, cache.savedPages(), 1)
}

func TestCachingLoaderDropsSavesAfterClose(t *testing.T) {
	cache := &cacheSpy{}
	sut := NewCachingLoader(stubLoader(uniquePage(1), nil), cache)
	require.NoError(t, sut.Close())

	got, err := sut.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)

	sut.Wait()
	assert.Empty(t, cache.savedPages())
}
