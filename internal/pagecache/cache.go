// ABOUTME: Thread-safe TTL and size-bounded cache of rendered pages keyed by path
// ABOUTME: Supports path, layout and tag invalidation and coalesces concurrent renders

package pagecache

import (
	"container/list"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/2389/folio/internal/revalidate"
)

// Entry is one cached render.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
	Tags        []string // data tags the render depended on
}

// RenderFunc produces the entry for a path on a cache miss.
type RenderFunc func(ctx context.Context) (*Entry, error)

// cacheEntry stores the render, its timestamp and list element for a cached key.
type cacheEntry struct {
	entry     *Entry
	timestamp time.Time
	element   *list.Element
}

// Cache provides a thread-safe, TTL-based, size-limited cache of rendered pages.
// Uses a doubly-linked list to keep recency order for O(1) eviction.
//
// Every invalidation bumps a generation counter. A render stores its result
// only if no invalidation happened while it ran, so an invalidation can never
// be undone by a render that started before it.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]*cacheEntry
	order      *list.List // keys, least recently used at front
	ttl        time.Duration
	maxSize    int
	generation uint64
	timeout    time.Duration
	group      singleflight.Group
	logger     *slog.Logger
	done       chan struct{}
	closed     bool
}

// Options configures a Cache.
type Options struct {
	TTL             time.Duration // zero means entries never expire
	MaxEntries      int           // zero means 1000
	JanitorInterval time.Duration // zero means one minute
	RenderTimeout   time.Duration // bound on a shared render; zero means 30 seconds
	Logger          *slog.Logger
}

// New creates a page cache. A background goroutine periodically removes expired
// entries until Close is called.
func New(opts Options) *Cache {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = 1000
	}
	if opts.JanitorInterval <= 0 {
		opts.JanitorInterval = time.Minute
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
		ttl:     opts.TTL,
		maxSize: opts.MaxEntries,
		timeout: opts.RenderTimeout,
		logger:  logger.With("component", "pagecache"),
		done:    make(chan struct{}),
	}
	go c.cleanup(opts.JanitorInterval)
	return c
}

func (c *Cache) expired(e *cacheEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.timestamp) >= c.ttl
}

// Get returns the cached entry for path, if present and fresh.
func (c *Cache) Get(path string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok || c.expired(e, time.Now()) {
		return nil, false
	}
	c.order.MoveToBack(e.element)
	return e.entry, true
}

// Put stores an entry for path unconditionally.
func (c *Cache) Put(path string, entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(path, entry)
}

// putLocked is the internal put implementation. Must be called with mu held.
func (c *Cache) putLocked(path string, entry *Entry) {
	now := time.Now()

	if e, exists := c.entries[path]; exists {
		e.entry = entry
		e.timestamp = now
		c.order.MoveToBack(e.element)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(path)
	c.entries[path] = &cacheEntry{entry: entry, timestamp: now, element: elem}
	cacheEntries.Set(float64(len(c.entries)))
}

// evictOldest removes the least recently used entry. Must be called with mu held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}

	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, key)
	cacheEvictions.Inc()
}

// removeLocked drops one key. Must be called with mu held.
func (c *Cache) removeLocked(path string) {
	if e, ok := c.entries[path]; ok {
		c.order.Remove(e.element)
		delete(c.entries, path)
	}
}

// GetOrRender returns the cached entry for path or renders it. Concurrent misses
// for the same path share one render. Render errors are returned and not cached.
// The second return value reports whether the entry came from the cache.
//
// The shared render keeps the first caller's values but not its cancellation,
// so one caller going away does not fail the others. Each caller stops waiting
// when its own ctx is done.
func (c *Cache) GetOrRender(ctx context.Context, path string, render RenderFunc) (*Entry, bool, error) {
	if e, ok := c.Get(path); ok {
		cacheHits.Inc()
		return e, true, nil
	}
	cacheMisses.Inc()

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	// Callers arriving after an invalidation must not join a render that started before it.
	key := path + "#" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(key, func() (any, error) {
		// Double-check: a render that just finished may have filled the entry.
		if e, ok := c.Get(path); ok {
			return e, nil
		}

		renderCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		start := time.Now()
		entry, err := render(renderCtx)
		renderDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, fmt.Errorf("render of %s returned no entry", path)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation != gen {
			c.logger.Debug("discarding render that raced an invalidation", "path", path)
			return entry, nil
		}
		c.putLocked(path, entry)
		return entry, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*Entry), false, nil
	}
}

// InvalidatePath drops path. At layout scope it also drops every cached path beneath it.
func (c *Cache) InvalidatePath(ctx context.Context, path string, scope revalidate.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	removed := 0
	if scope == revalidate.ScopeLayout {
		for key := range c.entries {
			if revalidate.UnderLayout(path, key) {
				c.removeLocked(key)
				removed++
			}
		}
	} else if _, ok := c.entries[path]; ok {
		c.removeLocked(path)
		removed++
	}

	cacheInvalidations.WithLabelValues(string(scope)).Inc()
	cacheEntries.Set(float64(len(c.entries)))
	c.logger.Debug("invalidated path", "path", path, "scope", scope, "removed", removed)
	return nil
}

// InvalidateTag drops every entry whose render depended on tag.
func (c *Cache) InvalidateTag(ctx context.Context, tag string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	removed := 0
	for key, e := range c.entries {
		if slices.Contains(e.entry.Tags, tag) {
			c.removeLocked(key)
			removed++
		}
	}

	cacheInvalidations.WithLabelValues("tag").Inc()
	cacheEntries.Set(float64(len(c.entries)))
	c.logger.Debug("invalidated tag", "tag", tag, "removed", removed)
	return nil
}

// Len returns the number of cached entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Generation returns the invalidation counter.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// cleanup runs in a background goroutine, periodically removing expired entries.
func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCleanup()
		case <-c.done:
			return
		}
	}
}

// runCleanup removes all expired entries from the cache.
func (c *Cache) runCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if c.expired(e, now) {
			c.removeLocked(key)
		}
	}
	cacheEntries.Set(float64(len(c.entries)))
}

// Close stops the background cleanup goroutine. It is safe to call multiple times.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}

var _ revalidate.Invalidator = (*Cache)(nil)
