package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/cinecache/pkg/models"
)

func TestLocalLoaderInitDoesNotTouchStore(t *testing.T) {
	store := &spyStore{}
	_ = NewLocalLoader(store, time.Now)
	assert.Empty(t, store.ops())
}

func TestLocalLoaderSave(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	page := uniquePage()

	t.Run("deletes then inserts with current time", func(t *testing.T) {
		store := &spyStore{}
		l := NewLocalLoader(store, fixedClock(now))

		require.NoError(t, l.Save(ctx, page))
		require.Equal(t, []string{"delete", "insert"}, store.ops())
		assert.True(t, page.Equal(store.calls[1].page))
		assert.Equal(t, now, store.calls[1].ts)
	})

	t.Run("delete failure skips insert", func(t *testing.T) {
		store := &spyStore{deleteErr: errAny}
		l := NewLocalLoader(store, fixedClock(now))

		err := l.Save(ctx, page)
		assert.ErrorIs(t, err, errAny)
		assert.Equal(t, []string{"delete"}, store.ops())
	})

	t.Run("insert failure propagates", func(t *testing.T) {
		store := &spyStore{insertErr: errAny}
		l := NewLocalLoader(store, fixedClock(now))

		err := l.Save(ctx, page)
		assert.ErrorIs(t, err, errAny)
		assert.Equal(t, []string{"delete", "insert"}, store.ops())
	})
}

func TestLocalLoaderLoad(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	page := uniquePage()

	t.Run("retrieval error propagates", func(t *testing.T) {
		store := &spyStore{retrieveErr: errAny}
		l := NewLocalLoader(store, fixedClock(ts))

		got, err := l.Load(ctx)
		assert.ErrorIs(t, err, errAny)
		assert.Nil(t, got)
	})

	t.Run("empty store yields no page", func(t *testing.T) {
		store := &spyStore{}
		l := NewLocalLoader(store, fixedClock(ts))

		got, err := l.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	cases := []struct {
		name  string
		now   time.Time
		fresh bool
	}{
		{"fresh", ts.Add(DefaultMaxAge - time.Second), true},
		{"expiring boundary", ts.Add(DefaultMaxAge), false},
		{"expired", ts.Add(8 * 24 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &spyStore{cached: &models.CachedPage{Page: page, Timestamp: ts}}
			l := NewLocalLoader(store, fixedClock(tc.now))

			got, err := l.Load(ctx)
			require.NoError(t, err)
			if tc.fresh {
				require.NotNil(t, got)
				assert.True(t, page.Equal(*got))
			} else {
				assert.Nil(t, got)
			}
			assert.Equal(t, []string{"retrieve"}, store.ops(), "load must not delete")
		})
	}
}

func TestLocalLoaderValidate(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	page := uniquePage()

	cases := []struct {
		name  string
		store *spyStore
		now   time.Time
		want  []string
	}{
		{"retrieval error deletes", &spyStore{retrieveErr: errAny}, ts, []string{"retrieve", "delete"}},
		{"empty cache kept", &spyStore{}, ts, []string{"retrieve"}},
		{"fresh cache kept", &spyStore{cached: &models.CachedPage{Page: page, Timestamp: ts}}, ts.Add(time.Hour), []string{"retrieve"}},
		{"boundary cache deleted", &spyStore{cached: &models.CachedPage{Page: page, Timestamp: ts}}, ts.Add(DefaultMaxAge), []string{"retrieve", "delete"}},
		{"expired cache deleted", &spyStore{cached: &models.CachedPage{Page: page, Timestamp: ts}}, ts.Add(8 * 24 * time.Hour), []string{"retrieve", "delete"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLocalLoader(tc.store, fixedClock(tc.now))
			l.Validate(ctx)
			assert.Equal(t, tc.want, tc.store.ops())
		})
	}
}

func TestLocalLoaderValidateAsync(t *testing.T) {
	store := &spyStore{retrieveErr: errAny}
	l := NewLocalLoader(store, time.Now)

	l.ValidateAsync()
	require.Eventually(t, func() bool {
		return len(store.ops()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"retrieve", "delete"}, store.ops())
}

func TestLocalLoaderStats(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	now := ts.Add(2 * time.Hour)
	store := &spyStore{cached: &models.CachedPage{Page: uniquePage(), Timestamp: ts}}
	l := NewLocalLoader(store, fixedClock(now), WithPolicy(Policy{MaxAge: time.Hour}))

	_, err := l.Load(ctx)
	require.NoError(t, err)

	stats, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Present)
	assert.False(t, stats.Fresh)
	assert.Equal(t, 2*time.Hour, stats.Age)
	assert.Equal(t, 1, stats.Movies)
	assert.Equal(t, int64(1), stats.Expired)
	assert.Zero(t, stats.Hits)
}

func TestLocalLoaderClear(t *testing.T) {
	store := &spyStore{}
	l := NewLocalLoader(store, time.Now)
	require.NoError(t, l.Clear(context.Background()))
	assert.Equal(t, []string{"delete"}, store.ops())
}
