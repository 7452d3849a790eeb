package basket

import (
	"context"
	"sync"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/storage"
)

// Manager hands out at most one Store per user, so the load-once
// guarantee holds even when several requests for the same user arrive
// before the first store exists.
type Manager struct {
	mu      sync.Mutex
	storage storage.BasketStorage
	stores  map[string]*Store
}

func NewManager(st storage.BasketStorage) *Manager {
	return &Manager{
		storage: st,
		stores:  make(map[string]*Store),
	}
}

// Store returns the user's basket store, creating and loading it on
// first use.
func (m *Manager) Store(ctx context.Context, userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[userID]; ok {
		return s
	}
	s := NewStore(ctx, userID, m.storage)
	m.stores[userID] = s
	return s
}
