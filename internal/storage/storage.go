package storage

import (
	"context"
	"errors"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

// ErrNotFound is returned by Load when no basket has been saved yet.
var ErrNotFound = errors.New("basket not found")

// BasketStorage persists the whole basket as a single blob per user.
// The basket store writes through on every mutation and loads exactly
// once at construction; consumers define this interface, not the
// individual backends.
type BasketStorage interface {
	Load(ctx context.Context, userID string) (domain.Basket, error)
	Save(ctx context.Context, userID string, basket domain.Basket) error
	Delete(ctx context.Context, userID string) error
}
