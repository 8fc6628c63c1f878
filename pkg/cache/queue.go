package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pario-ai/cinecache/pkg/models"
)

// ErrClosed is returned for operations issued to, or still queued on, a
// closed Queue.
var ErrClosed = errors.New("cache: queue closed")

// Future is the result of an operation that resolves exactly once.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(val T, err error) {
	f.val, f.err = val, err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx is done. A ctx error does
// not cancel the underlying operation.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

type job struct {
	run  func()
	drop func()
}

// Queue runs Store operations one at a time, in the order they were
// issued, on a dedicated goroutine. Queue itself satisfies Store by
// waiting on each operation.
type Queue struct {
	store   Store
	mu      sync.Mutex
	jobs    []job
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

var _ Store = (*Queue)(nil)

// NewQueue starts a Queue in front of store.
func NewQueue(store Store) *Queue {
	q := &Queue{
		store:   store,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go q.loop()
	return q
}

func submit[T any](q *Queue, fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	j := job{
		run: func() { f.resolve(fn()) },
		drop: func() {
			var zero T
			f.resolve(zero, ErrClosed)
		},
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		j.drop()
		return f
	}
	q.jobs = append(q.jobs, j)
	q.mu.Unlock()
	q.signal()
	return f
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) loop() {
	defer close(q.stopped)
	for range q.wake {
		for {
			q.mu.Lock()
			if q.closed {
				pending := q.jobs
				q.jobs = nil
				q.mu.Unlock()
				for _, j := range pending {
					j.drop()
				}
				return
			}
			if len(q.jobs) == 0 {
				q.mu.Unlock()
				break
			}
			j := q.jobs[0]
			q.jobs[0] = job{}
			q.jobs = q.jobs[1:]
			q.mu.Unlock()
			j.run()
		}
	}
}

// DeleteAsync queues a DeleteCachedPage.
func (q *Queue) DeleteAsync(ctx context.Context) *Future[struct{}] {
	return submit(q, func() (struct{}, error) {
		return struct{}{}, q.store.DeleteCachedPage(ctx)
	})
}

// InsertAsync queues an Insert.
func (q *Queue) InsertAsync(ctx context.Context, page models.Page, ts time.Time) *Future[struct{}] {
	return submit(q, func() (struct{}, error) {
		return struct{}{}, q.store.Insert(ctx, page, ts)
	})
}

// RetrieveAsync queues a Retrieve.
func (q *Queue) RetrieveAsync(ctx context.Context) *Future[*models.CachedPage] {
	return submit(q, func() (*models.CachedPage, error) {
		return q.store.Retrieve(ctx)
	})
}

// DeleteCachedPage implements Store.
func (q *Queue) DeleteCachedPage(ctx context.Context) error {
	_, err := q.DeleteAsync(ctx).Wait(ctx)
	return err
}

// Insert implements Store.
func (q *Queue) Insert(ctx context.Context, page models.Page, ts time.Time) error {
	_, err := q.InsertAsync(ctx, page, ts).Wait(ctx)
	return err
}

// Retrieve implements Store.
func (q *Queue) Retrieve(ctx context.Context) (*models.CachedPage, error) {
	return q.RetrieveAsync(ctx).Wait(ctx)
}

// Close stops the worker. The operation in progress, if any, completes;
// operations still queued resolve with ErrClosed. Close does not close
// the underlying store.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()
	q.signal()
	<-q.stopped
	return nil
}
