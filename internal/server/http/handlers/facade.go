package handlers

import (
	"context"

	"github.com/telemart/storefront/internal/domain/model"
)

// OrderFacade encapsulates customer order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, draft *model.Order, identity *model.TelegramIdentity) (*model.Order, error)
	Order(ctx context.Context, id string, userID int64) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
}

// AdminFacade provides the administrative workflow.
type AdminFacade interface {
	SetOrderStatus(ctx context.Context, id, status string) (*model.Order, error)
	SetVerificationStatus(ctx context.Context, id, status string) (*model.Order, error)
	VerificationQueue(ctx context.Context) ([]model.Order, error)
	HandToHandOrders(ctx context.Context, day string) ([]model.Order, error)
	UpsertDiscount(ctx context.Context, discount *model.DiscountCode) error
}

// LoyaltyFacade derives the caller's loyalty standing.
type LoyaltyFacade interface {
	LoyaltyStatus(ctx context.Context, identity *model.TelegramIdentity) (*model.LoyaltyStatus, error)
}

// DiscountFacade prices promotion codes.
type DiscountFacade interface {
	ValidateDiscount(ctx context.Context, code string, orderTotal float64) (*model.DiscountValidation, error)
}

// CatalogFacade exposes the product catalog.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id string) (*model.Product, error)
}

// WebhookFacade reacts to inbound bot chat messages.
type WebhookFacade interface {
	NotifyChat(chatID int64, text string)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	OrderFacade
	AdminFacade
	LoyaltyFacade
	DiscountFacade
	CatalogFacade
	WebhookFacade
}
