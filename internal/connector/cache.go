package connector

import (
	"sync"
)

// DocCache memoizes parsed documentation per connector. The auth model is
// derived from documentation on every status call, so the dashboard would
// otherwise re-read and re-parse the same file on each request. Entries are
// invalidated by the filesystem watcher when a connector package changes.
type DocCache struct {
	mu     sync.RWMutex
	reader *DocReader
	docs   map[string]Doc
}

// NewDocCache creates a cache over the given reader.
func NewDocCache(reader *DocReader) *DocCache {
	return &DocCache{
		reader: reader,
		docs:   make(map[string]Doc),
	}
}

// Get returns the cached documentation for name, reading and parsing it on
// first access.
func (c *DocCache) Get(name string) Doc {
	c.mu.RLock()
	doc, ok := c.docs[name]
	c.mu.RUnlock()
	if ok {
		return doc
	}

	doc = c.reader.Read(name)

	c.mu.Lock()
	c.docs[name] = doc
	c.mu.Unlock()

	return doc
}

// Invalidate drops the cached entry for name so the next Get re-reads it.
func (c *DocCache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, name)
}

// InvalidateAll drops every cached entry.
func (c *DocCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = make(map[string]Doc)
}
