package pushdown

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type Cache struct {
	cache *lru.TwoQueueCache[string, string]
}

// initCache initializes the generated-SQL cache
func (e *Engine) initCache(size int) (err error) {
	e.cache.cache, err = lru.New2Q[string, string](size)
	return
}

// Get returns the cached SQL for the key
func (c Cache) Get(key string) (sql string, fromCache bool) {
	if c.cache == nil {
		return
	}
	sql, fromCache = c.cache.Get(key)
	return
}

// Set caches the SQL under the key
func (c Cache) Set(key string, sql string) {
	if c.cache == nil {
		return
	}
	c.cache.Add(key, sql)
}
