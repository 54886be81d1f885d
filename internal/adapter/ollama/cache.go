package ollama

import (
	"context"
	"strings"
	"sync"

	"github.com/stark-ops/incident-parser/internal/domain"
	"github.com/stark-ops/incident-parser/internal/observability"
)

// CachedCompleter wraps a Completer with an in-memory LRU cache keyed by the
// full prompt. The prompt embeds the reference instant, so identical reports
// resolved against the same instant reuse one model call.
type CachedCompleter struct {
	inner   domain.Completer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedCompleter creates a cache decorator around a completer.
func NewCachedCompleter(inner domain.Completer, maxEntries int, metrics *observability.Metrics) *CachedCompleter {
	return &CachedCompleter{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if reply, ok := c.cache.get(prompt); ok {
		c.metrics.CompletionCache.WithLabelValues("hit").Inc()
		return reply, nil
	}
	c.metrics.CompletionCache.WithLabelValues("miss").Inc()

	reply, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		return reply, err
	}
	// Only cache non-empty replies so a transient blank response can be
	// retried on the next request.
	if strings.TrimSpace(reply) != "" {
		c.cache.put(prompt, reply)
	}
	return reply, nil
}

// lruCache is a small thread-safe LRU cache for completion replies.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value string
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
