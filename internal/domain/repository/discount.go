package repository

import (
	"context"

	"github.com/telemart/storefront/internal/domain/model"
)

// DiscountRepository manages promotion codes.
type DiscountRepository interface {
	// GetActive returns the active code or ErrNotFound.
	GetActive(ctx context.Context, code string) (*model.DiscountCode, error)

	// Consume atomically increments usedCount while the usage limit allows it.
	// Returns ErrNotFound for unknown or inactive codes and ErrUsageExceeded
	// when the limit is already reached.
	Consume(ctx context.Context, code string) error

	Upsert(ctx context.Context, discount *model.DiscountCode) error
}
