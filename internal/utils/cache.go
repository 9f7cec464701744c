package utils

import (
	"log"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// RenderCache memoises rendered HTML by source text. Rendering is a pure
// function of the source, so entries never go stale and need no TTL.
type RenderCache[V any] struct {
	lruCache *lru.Cache[string, V]
}

// NewRenderCache creates a cache holding up to size entries.
func NewRenderCache[V any](size int) *RenderCache[V] {
	l, err := lru.New[string, V](size)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &RenderCache[V]{lruCache: l}
}

// GetOrCompute returns the cached value for key, computing and storing it on a miss.
func (c *RenderCache[V]) GetOrCompute(key string, compute func() V) V {
	if v, ok := c.lruCache.Get(key); ok {
		return v
	}
	v := compute()
	c.lruCache.Add(key, v)
	return v
}

func (c *RenderCache[V]) Len() int {
	return c.lruCache.Len()
}

var (
	markdownCache     *RenderCache[string]
	markdownCacheOnce sync.Once
)

func getMarkdownCache() *RenderCache[string] {
	markdownCacheOnce.Do(func() {
		// 容量 500 条，足够覆盖一页帖子加评论
		markdownCache = NewRenderCache[string](500)
	})
	return markdownCache
}
