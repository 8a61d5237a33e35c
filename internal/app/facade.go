package app

import (
	"context"

	"github.com/telemart/storefront/internal/domain/model"
	"github.com/telemart/storefront/internal/usecase"
)

// StorefrontFacade aggregates the use cases behind the HTTP surface and the
// webhook's chat notifications.
type StorefrontFacade struct {
	orders    *usecase.OrderUseCase
	loyalty   *usecase.LoyaltyUseCase
	discounts *usecase.DiscountUseCase
	catalog   *usecase.CatalogUseCase

	dispatcher usecase.NotificationDispatcher
}

// NewStorefrontFacade constructs the facade.
func NewStorefrontFacade(
	orders *usecase.OrderUseCase,
	loyalty *usecase.LoyaltyUseCase,
	discounts *usecase.DiscountUseCase,
	catalog *usecase.CatalogUseCase,
	dispatcher usecase.NotificationDispatcher,
) *StorefrontFacade {
	return &StorefrontFacade{
		orders:     orders,
		loyalty:    loyalty,
		discounts:  discounts,
		catalog:    catalog,
		dispatcher: dispatcher,
	}
}

func (f *StorefrontFacade) CreateOrder(ctx context.Context, draft *model.Order, identity *model.TelegramIdentity) (*model.Order, error) {
	return f.orders.Create(ctx, draft, identity)
}

func (f *StorefrontFacade) Order(ctx context.Context, id string, userID int64) (*model.Order, error) {
	return f.orders.GetForUser(ctx, id, userID)
}

func (f *StorefrontFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListForUser(ctx, userID)
}

func (f *StorefrontFacade) SetOrderStatus(ctx context.Context, id, status string) (*model.Order, error) {
	return f.orders.SetStatus(ctx, id, status)
}

func (f *StorefrontFacade) SetVerificationStatus(ctx context.Context, id, status string) (*model.Order, error) {
	return f.orders.SetVerificationStatus(ctx, id, status)
}

func (f *StorefrontFacade) VerificationQueue(ctx context.Context) ([]model.Order, error) {
	return f.orders.VerificationQueue(ctx)
}

func (f *StorefrontFacade) HandToHandOrders(ctx context.Context, day string) ([]model.Order, error) {
	return f.orders.HandToHandOrders(ctx, day)
}

func (f *StorefrontFacade) LoyaltyStatus(ctx context.Context, identity *model.TelegramIdentity) (*model.LoyaltyStatus, error) {
	return f.loyalty.Status(ctx, identity)
}

func (f *StorefrontFacade) ValidateDiscount(ctx context.Context, code string, orderTotal float64) (*model.DiscountValidation, error) {
	return f.discounts.Validate(ctx, code, orderTotal)
}

func (f *StorefrontFacade) UpsertDiscount(ctx context.Context, discount *model.DiscountCode) error {
	return f.discounts.Upsert(ctx, discount)
}

func (f *StorefrontFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.List(ctx)
}

func (f *StorefrontFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.catalog.Get(ctx, id)
}

// NotifyChat queues a plain message to a chat.
func (f *StorefrontFacade) NotifyChat(chatID int64, text string) {
	f.dispatcher.Dispatch(model.Notification{ChatID: chatID, Text: text})
}
