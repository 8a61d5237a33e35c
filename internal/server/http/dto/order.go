package dto

import (
	"time"

	"github.com/telemart/storefront/internal/domain/model"
)

// CreateOrderRequest describes the checkout payload. Lifecycle fields and
// telegram identifiers are ignored; the server derives them itself.
type CreateOrderRequest struct {
	Customer model.Customer     `json:"customer" binding:"required"`
	Items    []model.OrderItem  `json:"items" binding:"required"`
	Delivery model.DeliveryInfo `json:"delivery" binding:"required"`
	Payment  model.PaymentInfo  `json:"payment" binding:"required"`
}

// OrderResponse describes a persisted order.
type OrderResponse struct {
	ID           string                 `json:"id"`
	Status       string                 `json:"status"`
	Customer     model.Customer         `json:"customer"`
	Items        []model.OrderItem      `json:"items"`
	Delivery     model.DeliveryInfo     `json:"delivery"`
	Payment      model.PaymentInfo      `json:"payment"`
	Verification model.VerificationInfo `json:"verification"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}
