package storage

import (
	"context"
	"sync"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

// MemoryStorage is a map-backed BasketStorage used in tests and as a
// fallback when no external backend is configured.
type MemoryStorage struct {
	mu      sync.RWMutex
	baskets map[string]domain.Basket
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{baskets: make(map[string]domain.Basket)}
}

func (m *MemoryStorage) Load(_ context.Context, userID string) (domain.Basket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	basket, ok := m.baskets[userID]
	if !ok {
		return domain.Basket{}, ErrNotFound
	}
	return basket.Clone(), nil
}

func (m *MemoryStorage) Save(_ context.Context, userID string, basket domain.Basket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baskets[userID] = basket.Clone()
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.baskets, userID)
	return nil
}
