package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pario-ai/cinecache/pkg/models"
)

var errAny = errors.New("any error")

type storeCall struct {
	op   string
	page models.Page
	ts   time.Time
}

// spyStore records calls and replies with canned results.
type spyStore struct {
	mu          sync.Mutex
	calls       []storeCall
	deleteErr   error
	insertErr   error
	retrieveErr error
	cached      *models.CachedPage
}

func (s *spyStore) DeleteCachedPage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storeCall{op: "delete"})
	return s.deleteErr
}

func (s *spyStore) Insert(ctx context.Context, page models.Page, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storeCall{op: "insert", page: page, ts: ts})
	return s.insertErr
}

func (s *spyStore) Retrieve(ctx context.Context) (*models.CachedPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storeCall{op: "retrieve"})
	return s.cached, s.retrieveErr
}

func (s *spyStore) ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.op
	}
	return out
}

func uniquePage() models.Page {
	poster := "/poster.jpg"
	return models.Page{
		Page: 1,
		Results: []models.Movie{
			{
				PosterPath:  &poster,
				Overview:    "an overview",
				ReleaseDate: "2024-05-01",
				GenreIDs:    []int{18, 35},
				ID:          42,
				Title:       "a movie",
				Popularity:  12.5,
				VoteCount:   321,
				VoteAverage: 7.7,
			},
		},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
