package connector

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestDocCache_InvalidateRereads(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "stripe", "docs.md", "## Authentication\n\nUses a Bearer token.\n")

	cache := NewDocCache(NewDocReader(root))

	doc := cache.Get("stripe")
	assert.Contains(t, doc.Auth, "Bearer")

	// Cached: a rewrite without invalidation is not visible.
	writeDoc(t, root, "stripe", "docs.md", "## Authentication\n\nUses OAuth now.\n")
	doc = cache.Get("stripe")
	assert.Contains(t, doc.Auth, "Bearer")

	cache.Invalidate("stripe")
	doc = cache.Get("stripe")
	assert.Contains(t, doc.Auth, "OAuth")
}

func TestDocCache_InvalidateAll(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "zoom", "docs.md", "## Authentication\n\nAPI key.\n")

	cache := NewDocCache(NewDocReader(root))
	cache.Get("zoom")

	writeDoc(t, root, "zoom", "docs.md", "## Authentication\n\nOAuth.\n")
	cache.InvalidateAll()

	assert.Contains(t, cache.Get("zoom").Auth, "OAuth")
}

func TestWatcher_HandleEventInvalidates(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "gmail", "docs.md", "## Authentication\n\nAPI key.\n")

	cache := NewDocCache(NewDocReader(root))
	w := NewWatcher(root, cache)

	cache.Get("gmail")
	writeDoc(t, root, "gmail", "docs.md", "## Authentication\n\nOAuth.\n")

	w.handleEvent(fsnotify.Event{
		Name: root + "/gmail/docs.md",
		Op:   fsnotify.Write,
	})

	assert.Contains(t, cache.Get("gmail").Auth, "OAuth")
}
