package repository

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/watch"
)

// liveQuery keeps a table's feed in step with committed writes. Reloads are
// serialized so a later snapshot is never overtaken by an earlier one.
type liveQuery[T any] struct {
	mu    sync.Mutex
	table string
	feed  *watch.Feed[T]
	load  func(ctx context.Context) (T, error)
	log   *zap.Logger
}

func newLiveQuery[T any](table string, load func(ctx context.Context) (T, error), log *zap.Logger) *liveQuery[T] {
	return &liveQuery[T]{
		table: table,
		feed:  watch.NewFeed[T](),
		load:  load,
		log:   log,
	}
}

// subscribe primes the feed on first use and returns a channel that yields
// the current snapshot and every later one until ctx is done.
func (q *liveQuery[T]) subscribe(ctx context.Context) (<-chan T, error) {
	q.mu.Lock()
	if !q.feed.Primed() {
		v, err := q.load(ctx)
		if err != nil {
			q.mu.Unlock()
			return nil, err
		}
		q.feed.Prime(v)
	}
	q.mu.Unlock()
	return q.feed.Subscribe(ctx), nil
}

// refresh reloads the table after a mutation. It runs even if the caller's
// context was cancelled once the write itself committed.
func (q *liveQuery[T]) refresh(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.feed.Primed() {
		return
	}
	v, err := q.load(context.WithoutCancel(ctx))
	if err != nil {
		q.log.Warn("failed to refresh live query",
			zap.String("table", q.table),
			zap.Error(err),
		)
		return
	}
	q.feed.Publish(v)
}

func (q *liveQuery[T]) close() {
	q.feed.Close()
}
