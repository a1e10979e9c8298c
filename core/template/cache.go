package template

import (
	"context"
	"sync"

	"burnout-board/core/utils"
)

// Cache is a single-slot, lazily-filled holder of the template dataset,
// owned by the composition root and handed to whoever needs the template.
// The slot write is mutex-guarded so concurrent first reads either load the
// same deterministic content or wait; a reader never observes a torn slot.
type Cache struct {
	source Source
	logger *utils.Logger

	mu   sync.Mutex
	data *Dataset
}

func NewCache(source Source, logger *utils.Logger) *Cache {
	return &Cache{source: source, logger: logger}
}

// Get returns the cached dataset, loading it on first use. A failed load
// leaves the slot empty and returns an error wrapping ErrUnavailable.
func (c *Cache) Get(ctx context.Context) (*Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data != nil {
		c.logger.Debugf("template: serving cached dataset")
		return c.data, nil
	}
	ds, err := c.source.Load(ctx)
	if err != nil {
		c.logger.Errorf("template: load failed: %v", err)
		return nil, err
	}
	c.data = ds
	c.logger.Infof("template: dataset loaded and cached")
	return ds, nil
}

// Invalidate empties the slot so the next Get reloads from the source.
// Used after the backing file changes and for test isolation.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.mu.Unlock()
	c.logger.Infof("template: cache invalidated")
}

// Loaded reports whether the slot currently holds a dataset.
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data != nil
}
