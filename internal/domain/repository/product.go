package repository

import (
	"context"

	"github.com/telemart/storefront/internal/domain/model"
)

// ProductRepository provides read access to the catalog.
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
}
