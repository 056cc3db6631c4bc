// Package cache реализует инвалидируемый сквозной кэш чтения.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader загружает актуальное значение ресурса.
type Loader[T any] func(ctx context.Context) (T, error)

// Cache хранит последний успешно загруженный снимок одного ресурса.
// Кэш никогда не является источником истины: после мутации вызывающий
// обязан вызвать Invalidate, и следующий Get снова обратится к загрузчику.
// Параллельные загрузки одного ресурса сливаются в один запрос.
type Cache[T any] struct {
	mu     sync.RWMutex
	group  singleflight.Group
	value  T
	loaded bool
}

// New создаёт пустой кэш.
func New[T any]() *Cache[T] {
	return &Cache[T]{}
}

// Get возвращает кэшированное значение или загружает его.
// Ошибка загрузки не кэшируется.
func (c *Cache[T]) Get(ctx context.Context, load Loader[T]) (T, error) {
	c.mu.RLock()
	if c.loaded {
		value := c.value
		c.mu.RUnlock()
		return value, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.group.Do("load", func() (any, error) {
		c.mu.RLock()
		if c.loaded {
			value := c.value
			c.mu.RUnlock()
			return value, nil
		}
		c.mu.RUnlock()

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.value = value
		c.loaded = true
		c.mu.Unlock()

		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// Invalidate сбрасывает снимок; следующий Get пойдёт к загрузчику.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	var zero T
	c.value = zero
	c.loaded = false
	c.mu.Unlock()
}
