package basket

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/storage"
)

const saveTimeout = time.Second

// Store is the single owner of one user's basket. All mutations go
// through it; readers only get snapshots. Every mutating operation
// writes the whole basket through to storage before returning, so the
// persisted state never lags behind the in-memory state. A failed save
// is logged and the in-memory mutation stands.
type Store struct {
	mu      sync.Mutex
	userID  string
	basket  domain.Basket
	storage storage.BasketStorage
}

// NewStore loads the persisted basket exactly once and returns the
// store. A missing basket starts empty; a load failure is logged and
// also falls back to empty rather than failing the application.
func NewStore(ctx context.Context, userID string, st storage.BasketStorage) *Store {
	s := &Store{userID: userID, storage: st}

	basket, err := st.Load(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("basket load failed for user %s: %v", userID, err)
		}
		return s
	}
	s.basket = basket
	return s
}

// AddOrIncrement adds a new line with quantity 1, or increments an
// existing line. The increment is rejected with ErrStockExceeded when
// it would push the quantity past the product's availability; the
// basket is left unchanged in that case.
func (s *Store) AddOrIncrement(p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.basket.Lines {
		if s.basket.Lines[i].Product.ID != p.ID {
			continue
		}
		if s.basket.Lines[i].Quantity+1 > s.basket.Lines[i].Product.QuantityAvailable {
			return domain.ErrStockExceeded
		}
		s.basket.Lines[i].Quantity++
		s.persist()
		return nil
	}

	// Callers are expected to have filtered out unavailable products
	// upstream; a fresh line still starts within the cap.
	if p.QuantityAvailable < 1 {
		return domain.ErrStockExceeded
	}
	s.basket.Lines = append(s.basket.Lines, domain.CartLine{Product: p, Quantity: 1})
	s.persist()
	return nil
}

// Decrement lowers the line's quantity by 1, removing the line entirely
// when it would drop to 0. Unknown ids are a no-op.
func (s *Store) Decrement(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.basket.Lines {
		if s.basket.Lines[i].Product.ID != productID {
			continue
		}
		if s.basket.Lines[i].Quantity > 1 {
			s.basket.Lines[i].Quantity--
		} else {
			s.basket.Lines = append(s.basket.Lines[:i], s.basket.Lines[i+1:]...)
		}
		s.persist()
		return
	}
}

// Remove drops the line regardless of quantity. Unknown ids are a no-op.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.basket.Lines {
		if s.basket.Lines[i].Product.ID != productID {
			continue
		}
		s.basket.Lines = append(s.basket.Lines[:i], s.basket.Lines[i+1:]...)
		s.persist()
		return
	}
}

// Clear empties the basket. Called on successful order completion or
// explicit user action.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.basket = domain.Basket{}
	s.persist()
}

// Snapshot returns a deep copy of the current basket.
func (s *Store) Snapshot() domain.Basket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Clone()
}

// Total recomputes the basket total from current state.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Total()
}

// ItemCount is the badge counter: the sum of all line quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.ItemCount()
}

// persist writes the basket through to storage. Caller holds the lock.
func (s *Store) persist() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.storage.Save(ctx, s.userID, s.basket); err != nil {
		log.Printf("basket save failed for user %s: %v", s.userID, err)
	}
}
