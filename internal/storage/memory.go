package storage

import (
	"encoding/json"
	"fmt"

	gocache "github.com/patrickmn/go-cache"
)

// Memory — реализация Store в памяти процесса поверх go-cache.
// Играет роль localStorage браузера: данные живут, пока жив процесс.
type Memory struct {
	c *gocache.Cache
}

// NewMemory создаёт пустое хранилище в памяти.
func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, 0)}
}

// Get читает значение по ключу в result.
func (m *Memory) Get(key string, result any) error {
	const op = "storage.Memory.Get"
	raw, found := m.c.Get(key)
	if !found {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw.([]byte), result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Set сохраняет значение по ключу.
func (m *Memory) Set(key string, value any) error {
	const op = "storage.Memory.Set"
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.c.Set(key, data, gocache.NoExpiration)
	return nil
}

// Remove удаляет значение по ключу.
func (m *Memory) Remove(key string) error {
	m.c.Delete(key)
	return nil
}
