// Package swr is a keyed stale-while-revalidate cache. Concurrent requests for
// the same key share one fetch, settled values are served immediately and
// refreshed in the background once they go stale. The number of keys is capped;
// the least recently used key is dropped first.
package swr

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries caps a cache whose Options leave MaxEntries unset
const DefaultMaxEntries = 1024

// Status is the lifecycle position of a key
type Status int

const (
	// StatusIdle means nothing was ever requested for the key
	StatusIdle Status = iota
	// StatusFetching means a fetch is in flight and nothing has settled yet
	StatusFetching
	// StatusSettled means a fetch finished with data or an error; a revalidation may be running
	StatusSettled
)

func (s Status) String() string {
	switch s {
	case StatusFetching:
		return "fetching"
	case StatusSettled:
		return "settled"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time view of one key
type Snapshot[T any] struct {
	Key       string
	Data      T
	HasData   bool
	Err       error
	Fetching  bool
	UpdatedAt time.Time
}

// Status derives the lifecycle position from the snapshot
func (s Snapshot[T]) Status() Status {
	if s.HasData || s.Err != nil {
		return StatusSettled
	}
	if s.Fetching {
		return StatusFetching
	}
	return StatusIdle
}

// FetchFunc loads the value for a key
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Options tunes revalidation
type Options struct {
	// StaleAfter is how long a settled value is served before a Get revalidates it
	StaleAfter time.Duration
	// FetchTimeout bounds each background fetch
	FetchTimeout time.Duration
	// MaxEntries caps how many keys are kept
	MaxEntries int
}

type entry[T any] struct {
	key       string
	data      T
	hasData   bool
	err       error
	fetching  bool
	updatedAt time.Time
	done      chan struct{}
}

// Cache is safe for concurrent use
type Cache[T any] struct {
	fetch FetchFunc[T]
	opts  Options
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

// New creates a cache backed by fetch
func New[T any](fetch FetchFunc[T], opts Options) *Cache[T] {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	return &Cache[T]{
		fetch:   fetch,
		opts:    opts,
		now:     time.Now,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the current snapshot for key, starting a fetch when the key is
// idle or its value is stale. It never blocks on the fetch.
func (c *Cache[T]) Get(key string) Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.touch(key)
	if !e.fetching && c.needsFetch(e) {
		c.start(key, e)
	}
	return snapshot(key, e)
}

// Load is Get that waits for the first settlement of key, or for ctx to end.
// Keys that already settled return immediately even while revalidating.
func (c *Cache[T]) Load(ctx context.Context, key string) Snapshot[T] {
	snap := c.Get(key)
	if snap.Status() != StatusFetching {
		return snap
	}

	c.mu.Lock()
	var done chan struct{}
	if elem, ok := c.entries[key]; ok {
		done = elem.Value.(*entry[T]).done
	}
	c.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	return c.Peek(key)
}

// Peek returns the snapshot for key without starting a fetch
func (c *Cache[T]) Peek(key string) Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return Snapshot[T]{Key: key}
	}
	return snapshot(key, elem.Value.(*entry[T]))
}

// Invalidate forgets key. An in-flight fetch for it settles into the detached
// entry only, so the next Get starts a fresh fetch.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
}

// Len reports how many keys are held
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// touch returns the entry for key, creating it and evicting the least recently
// used keys when the cache is full. Must be called with c.mu held.
func (c *Cache[T]) touch(key string) *entry[T] {
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*entry[T])
	}

	for c.order.Len() >= c.opts.MaxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry[T]).key)
	}

	e := &entry[T]{key: key}
	c.entries[key] = c.order.PushFront(e)
	return e
}

func (c *Cache[T]) needsFetch(e *entry[T]) bool {
	if !e.hasData && e.err == nil {
		return true
	}
	return c.now().Sub(e.updatedAt) >= c.opts.StaleAfter
}

// start must be called with c.mu held
func (c *Cache[T]) start(key string, e *entry[T]) {
	e.fetching = true
	e.done = make(chan struct{})
	go c.run(key, e)
}

func (c *Cache[T]) run(key string, e *entry[T]) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.FetchTimeout)
	defer cancel()

	v, err := c.fetch(ctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	e.fetching = false
	e.updatedAt = c.now()
	if err != nil {
		e.err = err
	} else {
		e.err = nil
		e.data = v
		e.hasData = true
	}
	close(e.done)
}

func snapshot[T any](key string, e *entry[T]) Snapshot[T] {
	return Snapshot[T]{
		Key:       key,
		Data:      e.data,
		HasData:   e.hasData,
		Err:       e.err,
		Fetching:  e.fetching,
		UpdatedAt: e.updatedAt,
	}
}
