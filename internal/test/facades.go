package test

import (
	"context"
	"errors"
	"sync"

	"github.com/telemart/storefront/internal/domain/model"
)

// ErrBadInitData is returned by VerifierStub for unknown payloads.
var ErrBadInitData = errors.New("bad init data")

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateOrderFn func(context.Context, *model.Order, *model.TelegramIdentity) (*model.Order, error)
	OrderFn       func(context.Context, string, int64) (*model.Order, error)
	OrdersFn      func(context.Context, int64) ([]model.Order, error)
}

// CreateOrder delegates to the provided function or echoes the draft.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, draft *model.Order, identity *model.TelegramIdentity) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, draft, identity)
	}
	out := *draft
	out.ID = "ORD-19700101-TEST"
	return &out, nil
}

// Order returns the configured order.
func (s OrderFacadeStub) Order(ctx context.Context, id string, userID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id, userID)
	}
	return &model.Order{ID: id, Customer: model.Customer{TelegramUserID: userID}}, nil
}

// Orders returns predefined orders for the given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: "ORD-19700101-TEST"}}, nil
}

// AdminFacadeStub simulates the administrative workflow.
type AdminFacadeStub struct {
	SetOrderStatusFn        func(context.Context, string, string) (*model.Order, error)
	SetVerificationStatusFn func(context.Context, string, string) (*model.Order, error)
	VerificationQueueFn     func(context.Context) ([]model.Order, error)
	HandToHandOrdersFn      func(context.Context, string) ([]model.Order, error)
	UpsertDiscountFn        func(context.Context, *model.DiscountCode) error
}

func (s AdminFacadeStub) SetOrderStatus(ctx context.Context, id, status string) (*model.Order, error) {
	if s.SetOrderStatusFn != nil {
		return s.SetOrderStatusFn(ctx, id, status)
	}
	return &model.Order{ID: id, Status: model.OrderStatus(status)}, nil
}

func (s AdminFacadeStub) SetVerificationStatus(ctx context.Context, id, status string) (*model.Order, error) {
	if s.SetVerificationStatusFn != nil {
		return s.SetVerificationStatusFn(ctx, id, status)
	}
	return &model.Order{ID: id, Verification: model.VerificationInfo{Required: true, Status: model.VerificationStatus(status)}}, nil
}

func (s AdminFacadeStub) VerificationQueue(ctx context.Context) ([]model.Order, error) {
	if s.VerificationQueueFn != nil {
		return s.VerificationQueueFn(ctx)
	}
	return nil, nil
}

func (s AdminFacadeStub) HandToHandOrders(ctx context.Context, day string) ([]model.Order, error) {
	if s.HandToHandOrdersFn != nil {
		return s.HandToHandOrdersFn(ctx, day)
	}
	return nil, nil
}

func (s AdminFacadeStub) UpsertDiscount(ctx context.Context, discount *model.DiscountCode) error {
	if s.UpsertDiscountFn != nil {
		return s.UpsertDiscountFn(ctx, discount)
	}
	return nil
}

// LoyaltyFacadeStub simulates loyalty standing lookups.
type LoyaltyFacadeStub struct {
	LoyaltyStatusFn func(context.Context, *model.TelegramIdentity) (*model.LoyaltyStatus, error)
}

func (s LoyaltyFacadeStub) LoyaltyStatus(ctx context.Context, identity *model.TelegramIdentity) (*model.LoyaltyStatus, error) {
	if s.LoyaltyStatusFn != nil {
		return s.LoyaltyStatusFn(ctx, identity)
	}
	if !identity.Authenticated() {
		return &model.LoyaltyStatus{Level: "Guest", NextLevelThreshold: 100}, nil
	}
	return &model.LoyaltyStatus{Points: 150, Level: "Insider", NextLevelThreshold: 500, Progress: 30}, nil
}

// DiscountFacadeStub simulates discount pricing.
type DiscountFacadeStub struct {
	ValidateDiscountFn func(context.Context, string, float64) (*model.DiscountValidation, error)
}

func (s DiscountFacadeStub) ValidateDiscount(ctx context.Context, code string, orderTotal float64) (*model.DiscountValidation, error) {
	if s.ValidateDiscountFn != nil {
		return s.ValidateDiscountFn(ctx, code, orderTotal)
	}
	return &model.DiscountValidation{Valid: true, DiscountAmount: 10, NewTotal: orderTotal - 10, Message: "Code applied successfully."}, nil
}

// CatalogFacadeStub simulates the product catalog.
type CatalogFacadeStub struct {
	ProductsFn func(context.Context) ([]model.Product, error)
	ProductFn  func(context.Context, string) (*model.Product, error)
}

func (s CatalogFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: "p1", Name: "Widget"}}, nil
}

func (s CatalogFacadeStub) Product(ctx context.Context, id string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "Widget"}, nil
}

// WebhookFacadeStub records chat notifications.
type WebhookFacadeStub struct {
	mu       sync.Mutex
	notified []model.Notification
}

func (s *WebhookFacadeStub) NotifyChat(chatID int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = append(s.notified, model.Notification{ChatID: chatID, Text: text})
}

// Notified returns a copy of recorded chat notifications.
func (s *WebhookFacadeStub) Notified() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.notified))
	copy(out, s.notified)
	return out
}

// StorefrontFacadeStub aggregates all facade stubs.
type StorefrontFacadeStub struct {
	OrderFacadeStub
	AdminFacadeStub
	LoyaltyFacadeStub
	DiscountFacadeStub
	CatalogFacadeStub
	*WebhookFacadeStub
}

// NewStorefrontFacadeStub constructs the aggregate with a live webhook stub.
func NewStorefrontFacadeStub() *StorefrontFacadeStub {
	return &StorefrontFacadeStub{WebhookFacadeStub: &WebhookFacadeStub{}}
}

// VerifierStub validates init data by map lookup.
type VerifierStub struct {
	Identities map[string]*model.TelegramIdentity
	Err        error
}

// Verify returns the configured identity or error.
func (s VerifierStub) Verify(raw string) (*model.TelegramIdentity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if identity, ok := s.Identities[raw]; ok {
		return identity, nil
	}
	return nil, ErrBadInitData
}
