// Package storetest holds the behavioral suite every cache.Store backend
// must pass.
package storetest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/cinecache/pkg/cache"
	"github.com/pario-ai/cinecache/pkg/models"
)

// Factory opens a store backed by the resource at path. Opening the same
// path twice must address the same slot. Implementations register their
// own cleanup.
type Factory func(t *testing.T, path string) cache.Store

// Run exercises newStore against the Store contract.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, newStore Factory, path string)
	}{
		{"RetrieveEmpty", testRetrieveEmpty},
		{"RetrieveEmptyTwice", testRetrieveEmptyTwice},
		{"InsertThenRetrieve", testInsertThenRetrieve},
		{"RetrieveTwiceAfterInsert", testRetrieveTwiceAfterInsert},
		{"InsertOverridesPrevious", testInsertOverridesPrevious},
		{"DeleteEmpty", testDeleteEmpty},
		{"DeleteAfterInsert", testDeleteAfterInsert},
		{"RoundTripPreservesOrder", testRoundTripPreservesOrder},
		{"SerialSideEffects", testSerialSideEffects},
		{"ConcurrentInsertsOnInstance", testConcurrentInserts},
		{"SharedResourceLastWriterWins", testSharedResource},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store")
			tc.fn(t, newStore, path)
		})
	}
}

// Page returns a page with n distinct movies.
func Page(n int) models.Page {
	page := models.Page{Page: n}
	for i := 0; i < n; i++ {
		poster := fmt.Sprintf("/poster-%d.jpg", i)
		m := models.Movie{
			Overview:    fmt.Sprintf("overview %d", i),
			ReleaseDate: fmt.Sprintf("2024-01-%02d", i+1),
			GenreIDs:    []int{i, i + 10, i + 20},
			ID:          1000 + i,
			Title:       fmt.Sprintf("movie %d", i),
			Popularity:  float64(i) + 0.25,
			VoteCount:   i * 3,
			VoteAverage: float64(i%10) + 0.5,
		}
		if i%2 == 0 {
			m.PosterPath = &poster
		}
		page.Results = append(page.Results, m)
	}
	return page
}

var baseTime = time.Date(2024, 2, 3, 4, 5, 6, 789, time.UTC)

func expectSlot(t *testing.T, s cache.Store, page models.Page, ts time.Time) {
	t.Helper()
	got, err := s.Retrieve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got, "expected a cached page")
	assert.True(t, page.Equal(got.Page), "page mismatch: got %+v", got.Page)
	assert.True(t, ts.Equal(got.Timestamp), "timestamp mismatch: got %v want %v", got.Timestamp, ts)
}

func expectEmpty(t *testing.T, s cache.Store) {
	t.Helper()
	got, err := s.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testRetrieveEmpty(t *testing.T, newStore Factory, path string) {
	expectEmpty(t, newStore(t, path))
}

func testRetrieveEmptyTwice(t *testing.T, newStore Factory, path string) {
	s := newStore(t, path)
	expectEmpty(t, s)
	expectEmpty(t, s)
}

func testInsertThenRetrieve(t *testing.T, newStore Factory, path string) {
	s := newStore(t, path)
	require.NoError(t, s.Insert(context.Background(), Page(2), baseTime))
	expectSlot(t, s, Page(2), baseTime)
}

func testRetrieveTwiceAfterInsert(t *testing.T, newStore Factory, path string) {
	s := newStore(t, path)
	require.NoError(t, s.Insert(context.Background(), Page(2), baseTime))
	expectSlot(t, s, Page(2), baseTime)
	expectSlot(t, s, Page(2), baseTime)
}

func testInsertOverridesPrevious(t *testing.T, newStore Factory, path string) {
	ctx := context.Background()
	s := newStore(t, path)
	later := baseTime.Add(time.Hour)

	require.NoError(t, s.Insert(ctx, Page(3), baseTime))
	require.NoError(t, s.Insert(ctx, Page(1), later))
	expectSlot(t, s, Page(1), later)
}

func testDeleteEmpty(t *testing.T, newStore Factory, path string) {
	s := newStore(t, path)
	require.NoError(t, s.DeleteCachedPage(context.Background()))
	expectEmpty(t, s)
}

func testDeleteAfterInsert(t *testing.T, newStore Factory, path string) {
	ctx := context.Background()
	s := newStore(t, path)
	require.NoError(t, s.Insert(ctx, Page(2), baseTime))
	require.NoError(t, s.DeleteCachedPage(ctx))
	expectEmpty(t, s)
}

func testRoundTripPreservesOrder(t *testing.T, newStore Factory, path string) {
	s := newStore(t, path)
	page := Page(25)
	page.Results[3].GenreIDs = nil
	page.Results[4].Overview = ""
	require.NoError(t, s.Insert(context.Background(), page, baseTime))
	expectSlot(t, s, page, baseTime)

	empty := models.Page{Page: 9}
	require.NoError(t, s.Insert(context.Background(), empty, baseTime))
	expectSlot(t, s, empty, baseTime)
}

func testSerialSideEffects(t *testing.T, newStore Factory, path string) {
	ctx := context.Background()
	q := cache.NewQueue(newStore(t, path))
	t.Cleanup(func() { _ = q.Close() })

	var mu sync.Mutex
	var order []string
	track := func(name string, done <-chan struct{}, wg *sync.WaitGroup) {
		go func() {
			defer wg.Done()
			<-done
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}()
	}

	op1 := q.InsertAsync(ctx, Page(2), baseTime)
	op2 := q.DeleteAsync(ctx)
	op3 := q.RetrieveAsync(ctx)
	op4 := q.InsertAsync(ctx, Page(1), baseTime.Add(time.Minute))

	_, err := op4.Wait(ctx)
	require.NoError(t, err)
	for _, done := range []<-chan struct{}{op1.Done(), op2.Done(), op3.Done()} {
		select {
		case <-done:
		default:
			t.Fatal("earlier operation still pending after a later one resolved")
		}
	}

	var wg sync.WaitGroup
	wg.Add(4)
	track("op1", op1.Done(), &wg)
	track("op2", op2.Done(), &wg)
	track("op3", op3.Done(), &wg)
	track("op4", op4.Done(), &wg)
	wg.Wait()
	assert.Len(t, order, 4)

	got, err := op3.Wait(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "retrieve issued after delete must see an empty store")
	expectSlot(t, q, Page(1), baseTime.Add(time.Minute))
}

func testConcurrentInserts(t *testing.T, newStore Factory, path string) {
	ctx := context.Background()
	s := newStore(t, path)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, s.Insert(ctx, Page(n), baseTime.Add(time.Duration(n)*time.Second)))
		}(i)
	}
	wg.Wait()

	got, err := s.Retrieve(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	n := got.Page.Page
	require.True(t, n >= 1 && n <= 8, "unexpected page %d", n)
	assert.True(t, Page(n).Equal(got.Page), "torn write: page %d holds %d movies", n, len(got.Page.Results))
	assert.True(t, baseTime.Add(time.Duration(n)*time.Second).Equal(got.Timestamp))
}

func testSharedResource(t *testing.T, newStore Factory, path string) {
	ctx := context.Background()
	a := newStore(t, path)
	b := newStore(t, path)

	require.NoError(t, a.Insert(ctx, Page(2), baseTime))
	expectSlot(t, b, Page(2), baseTime)

	later := baseTime.Add(time.Hour)
	require.NoError(t, b.Insert(ctx, Page(3), later))
	expectSlot(t, a, Page(3), later)

	require.NoError(t, a.DeleteCachedPage(ctx))
	expectEmpty(t, b)
}
