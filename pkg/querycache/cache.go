package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DefaultRetries is the bounded retry count applied when Options.Retries is
// left zero. There is no unbounded retry anywhere in this layer.
const DefaultRetries = 3

// NoRetry disables retries for a query.
const NoRetry = -1

// FailedPayload lets the cache recognize a fetch that "succeeded" at the
// transport level but resolved to a payload that is itself an error value.
// Both failure shapes surface through the same error return.
type FailedPayload interface {
	Failed() bool
}

type Options struct {
	// TTL is the freshness window. An entry older than this triggers a
	// fresh fetch on next access.
	TTL time.Duration
	// Retries is the number of additional attempts after a failed fetch.
	// Zero means DefaultRetries; NoRetry disables retries.
	Retries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// Cache is a keyed revalidating cache. It is an explicit injectable service:
// construct one, hand it to consumers, and throw it away in tests. There is
// no package-level state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	// now is swapped out by tests.
	now func() time.Time
}

type entry struct {
	value     interface{}
	hasValue  bool
	fetchedAt time.Time
	inflight  *flight
}

type flight struct {
	done  chan struct{}
	value interface{}
	err   error
}

func New() *Cache {
	return &Cache{
		entries: map[string]*entry{},
		now:     time.Now,
	}
}

// FetchFunc loads the value for a key. It may fail either by returning an
// error or by returning a FailedPayload value; the cache treats both the
// same way.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Get returns the cached value for key if it is fresh, otherwise fetches.
// Concurrent calls with the same key share a single fetch: the extra
// callers either receive the already-cached stale value immediately or, if
// there is nothing cached yet, wait for the in-flight result.
func (c *Cache) Get(ctx context.Context, key string, opts Options, fetch FetchFunc) (interface{}, error) {
	c.mu.Lock()
	e := c.entries[key]
	if e == nil {
		e = &entry{}
		c.entries[key] = e
	}

	if e.hasValue && c.now().Sub(e.fetchedAt) < opts.TTL {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}

	if e.inflight != nil {
		if e.hasValue {
			// A revalidation is already running; the stale value stays
			// visible until it resolves.
			value := e.value
			c.mu.Unlock()
			return value, nil
		}

		f := e.inflight
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.value, f.err
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		}
	}

	return c.fetchLocked(ctx, e, opts, fetch)
}

// Refetch ignores the freshness window and re-fetches unconditionally. The
// cached value is replaced atomically on success; until then readers keep
// seeing the previous value. If a fetch for the key is already running the
// call joins it.
func (c *Cache) Refetch(ctx context.Context, key string, opts Options, fetch FetchFunc) (interface{}, error) {
	c.mu.Lock()
	e := c.entries[key]
	if e == nil {
		e = &entry{}
		c.entries[key] = e
	}

	if e.inflight != nil {
		f := e.inflight
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.value, f.err
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		}
	}

	return c.fetchLocked(ctx, e, opts, fetch)
}

// fetchLocked starts a flight for e and runs the fetch with bounded
// retries. The mutex must be held on entry; it is released before the fetch
// runs so other keys stay usable.
func (c *Cache) fetchLocked(ctx context.Context, e *entry, opts Options, fetch FetchFunc) (interface{}, error) {
	f := &flight{done: make(chan struct{})}
	e.inflight = f
	c.mu.Unlock()

	value, err := fetchWithRetry(ctx, opts, fetch)

	c.mu.Lock()
	if err == nil {
		e.value = value
		e.hasValue = true
		e.fetchedAt = c.now()
		f.value = value
	} else if e.hasValue {
		// Keep the stale value readable; the caller still sees the error.
		f.value = e.value
	}
	f.err = err
	if e.inflight == f {
		e.inflight = nil
	}
	c.mu.Unlock()
	close(f.done)

	return f.value, f.err
}

func fetchWithRetry(ctx context.Context, opts Options, fetch FetchFunc) (interface{}, error) {
	retries := opts.Retries
	if retries == 0 {
		retries = DefaultRetries
	}
	if retries < 0 {
		retries = 0
	}

	var value interface{}
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 && opts.RetryDelay > 0 {
			select {
			case <-time.After(opts.RetryDelay):
			case <-ctx.Done():
				return nil, errors.WithStack(ctx.Err())
			}
		}

		value, err = fetch(ctx)
		if err == nil {
			if failed, ok := value.(FailedPayload); ok && failed.Failed() {
				err = payloadError(value)
				continue
			}
			return value, nil
		}
	}

	return nil, err
}

func payloadError(value interface{}) error {
	if err, ok := value.(error); ok {
		return err
	}
	return errors.New("query resolved to a failed payload")
}

// Invalidate drops the cached value for a key. An in-flight fetch for the
// key is unaffected and will still populate the entry when it resolves.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[key]
	if e == nil {
		return
	}
	if e.inflight == nil {
		delete(c.entries, key)
		return
	}
	e.value = nil
	e.hasValue = false
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*entry{}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fetch is a typed wrapper around Cache.Get.
func Fetch[T any](ctx context.Context, c *Cache, key string, opts Options, fetch func(ctx context.Context) (T, error)) (T, error) {
	value, err := c.Get(ctx, key, opts, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})
	if value == nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, errors.Errorf("querycache: unexpected cached type %T for key %q", value, key)
	}
	return typed, err
}
