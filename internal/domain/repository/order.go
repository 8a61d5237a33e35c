package repository

import (
	"context"
	"time"

	"github.com/telemart/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create persists a fully populated order. When discountCode is non-empty
	// the code usage is consumed in the same transaction; exhausted or unknown
	// codes fail the whole creation.
	Create(ctx context.Context, order *model.Order, discountCode string) error

	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByTelegramUser(ctx context.Context, userID int64) ([]model.Order, error)

	// UpdateStatus atomically moves the order into status when its current
	// status is one of allowedFrom, and returns the persisted row.
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, allowedFrom []model.OrderStatus) (*model.Order, error)

	// UpdateVerificationStatus atomically moves verification.status when its
	// current value is one of allowedFrom, and returns the persisted row.
	UpdateVerificationStatus(ctx context.Context, id string, status model.VerificationStatus, allowedFrom []model.VerificationStatus) (*model.Order, error)

	ListVerificationQueue(ctx context.Context) ([]model.Order, error)

	// ListHandToHand returns h2h orders created inside [from, to). Zero time
	// bounds disable the window filter.
	ListHandToHand(ctx context.Context, from, to time.Time) ([]model.Order, error)

	// SumQualifyingSpend totals payment.total over the user's orders whose
	// status is in the qualifying set.
	SumQualifyingSpend(ctx context.Context, userID int64, statuses []model.OrderStatus) (float64, error)
}
