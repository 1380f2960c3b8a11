// Package watch implements live queries: a Feed holds the latest snapshot of
// a table and pushes it to every subscriber whenever it changes.
//
// Delivery is conflating. Each subscriber has a one-slot buffer; if a
// subscriber has not consumed the previous snapshot when a new one is
// published, the stale one is replaced. Subscribers therefore always observe
// the newest state, but may skip intermediate ones.
package watch

import (
	"context"
	"sync"
)

// Feed is a multi-subscriber producer of snapshots of type T.
type Feed[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]chan T
	nextID uint64
	latest T
	primed bool
	closed bool
	done   chan struct{}
}

// NewFeed creates an empty, unprimed feed.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[uint64]chan T), done: make(chan struct{})}
}

// Primed reports whether the feed holds a snapshot.
func (f *Feed[T]) Primed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.primed
}

// Prime seeds the feed with an initial snapshot unless one was already
// published. It never overrides a newer value.
func (f *Feed[T]) Prime(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.primed || f.closed {
		return
	}
	f.latest = v
	f.primed = true
}

// Publish stores v as the latest snapshot and delivers it to every
// subscriber without blocking.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.latest = v
	f.primed = true
	for _, ch := range f.subs {
		deliver(ch, v)
	}
}

// Subscribe registers a subscriber. The returned channel receives the latest
// snapshot immediately (if primed) and every later one. It is closed when ctx
// is done or the feed is closed.
func (f *Feed[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(ch)
		return ch
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	if f.primed {
		ch <- f.latest
	}
	f.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			f.unsubscribe(id)
		case <-f.done:
		}
	}()
	return ch
}

// Subscribers returns the number of active subscribers.
func (f *Feed[T]) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close closes every subscriber channel; later Subscribe calls return a
// closed channel.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.done)
	for id, ch := range f.subs {
		close(ch)
		delete(f.subs, id)
	}
}

func (f *Feed[T]) unsubscribe(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.subs[id]; ok {
		close(ch)
		delete(f.subs, id)
	}
}

// deliver replaces any unread snapshot in ch with v. Callers hold f.mu, so
// the channel has exactly one writer and the final send cannot block.
func deliver[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
