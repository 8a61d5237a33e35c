package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/telemart/storefront/internal/domain/errors"
	"github.com/telemart/storefront/internal/domain/model"
)

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn                   func(context.Context, *model.Order, string) error
	GetByIDFn                  func(context.Context, string) (*model.Order, error)
	ListByTelegramUserFn       func(context.Context, int64) ([]model.Order, error)
	UpdateStatusFn             func(context.Context, string, model.OrderStatus, []model.OrderStatus) (*model.Order, error)
	UpdateVerificationStatusFn func(context.Context, string, model.VerificationStatus, []model.VerificationStatus) (*model.Order, error)
	ListVerificationQueueFn    func(context.Context) ([]model.Order, error)
	ListHandToHandFn           func(context.Context, time.Time, time.Time) ([]model.Order, error)
	SumQualifyingSpendFn       func(context.Context, int64, []model.OrderStatus) (float64, error)

	Created       []model.Order
	ConsumedCodes []string
}

// Create tracks the persisted order and consumed code.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, discountCode string) error {
	s.Created = append(s.Created, *order)
	s.ConsumedCodes = append(s.ConsumedCodes, discountCode)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, discountCode)
	}
	return nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ListByTelegramUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByTelegramUserFn != nil {
		return s.ListByTelegramUserFn(ctx, userID)
	}
	return nil, nil
}

func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, allowedFrom []model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status, allowedFrom)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) UpdateVerificationStatus(ctx context.Context, id string, status model.VerificationStatus, allowedFrom []model.VerificationStatus) (*model.Order, error) {
	if s.UpdateVerificationStatusFn != nil {
		return s.UpdateVerificationStatusFn(ctx, id, status, allowedFrom)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ListVerificationQueue(ctx context.Context) ([]model.Order, error) {
	if s.ListVerificationQueueFn != nil {
		return s.ListVerificationQueueFn(ctx)
	}
	return nil, nil
}

func (s *OrderRepositoryStub) ListHandToHand(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	if s.ListHandToHandFn != nil {
		return s.ListHandToHandFn(ctx, from, to)
	}
	return nil, nil
}

func (s *OrderRepositoryStub) SumQualifyingSpend(ctx context.Context, userID int64, statuses []model.OrderStatus) (float64, error) {
	if s.SumQualifyingSpendFn != nil {
		return s.SumQualifyingSpendFn(ctx, userID, statuses)
	}
	return 0, nil
}

// DiscountRepositoryStub allows tests to customize behaviour.
type DiscountRepositoryStub struct {
	GetActiveFn func(context.Context, string) (*model.DiscountCode, error)
	ConsumeFn   func(context.Context, string) error
	UpsertFn    func(context.Context, *model.DiscountCode) error

	Consumed []string
	Upserted []model.DiscountCode
}

func (s *DiscountRepositoryStub) GetActive(ctx context.Context, code string) (*model.DiscountCode, error) {
	if s.GetActiveFn != nil {
		return s.GetActiveFn(ctx, code)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *DiscountRepositoryStub) Consume(ctx context.Context, code string) error {
	s.Consumed = append(s.Consumed, code)
	if s.ConsumeFn != nil {
		return s.ConsumeFn(ctx, code)
	}
	return nil
}

func (s *DiscountRepositoryStub) Upsert(ctx context.Context, discount *model.DiscountCode) error {
	s.Upserted = append(s.Upserted, *discount)
	if s.UpsertFn != nil {
		return s.UpsertFn(ctx, discount)
	}
	return nil
}

// ProductRepositoryStub allows tests to customize behaviour.
type ProductRepositoryStub struct {
	ListFn    func(context.Context) ([]model.Product, error)
	GetByIDFn func(context.Context, string) (*model.Product, error)
}

func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, nil
}

func (s *ProductRepositoryStub) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// DispatcherStub records dispatched notifications.
type DispatcherStub struct {
	mu   sync.Mutex
	sent []model.Notification
}

// Dispatch records the notification.
func (s *DispatcherStub) Dispatch(n model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
}

// Sent returns a copy of the recorded notifications.
func (s *DispatcherStub) Sent() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.sent))
	copy(out, s.sent)
	return out
}
