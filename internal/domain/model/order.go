package model

import "time"

// OrderStatus describes the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusVerificationPending OrderStatus = "verification_pending"
	OrderStatusPaymentConfirmed    OrderStatus = "payment_confirmed"
	OrderStatusReadyForH2H         OrderStatus = "ready_for_h2h"
	OrderStatusInProgressH2H       OrderStatus = "in_progress_h2h"
	OrderStatusCompletedH2H        OrderStatus = "completed_h2h"
	OrderStatusCancelled           OrderStatus = "cancelled"
)

// statusTransitions lists reachable target statuses per source status.
// Terminal statuses have no entries.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusVerificationPending: {OrderStatusPaymentConfirmed, OrderStatusCancelled},
	OrderStatusPaymentConfirmed:    {OrderStatusReadyForH2H, OrderStatusCancelled},
	OrderStatusReadyForH2H:         {OrderStatusInProgressH2H, OrderStatusCancelled},
	OrderStatusInProgressH2H:       {OrderStatusCompletedH2H, OrderStatusCancelled},
}

// Valid reports whether the status belongs to the known vocabulary.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusVerificationPending, OrderStatusPaymentConfirmed,
		OrderStatusReadyForH2H, OrderStatusInProgressH2H,
		OrderStatusCompletedH2H, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompletedH2H || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionSources returns every status from which target is reachable.
func TransitionSources(target OrderStatus) []OrderStatus {
	var sources []OrderStatus
	for from, targets := range statusTransitions {
		for _, to := range targets {
			if to == target {
				sources = append(sources, from)
			}
		}
	}
	return sources
}

// VerificationStatus describes the identity-video review state.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
	VerificationStatusSkipped  VerificationStatus = "skipped"
)

// Valid reports whether the verification status is part of the vocabulary.
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationStatusPending, VerificationStatusApproved,
		VerificationStatusRejected, VerificationStatusSkipped:
		return true
	}
	return false
}

// VerificationTransitionSources returns verification statuses from which
// target may be set. A rejected verification returns to pending on resubmission.
func VerificationTransitionSources(target VerificationStatus) []VerificationStatus {
	switch target {
	case VerificationStatusApproved, VerificationStatusRejected, VerificationStatusSkipped:
		return []VerificationStatus{VerificationStatusPending}
	case VerificationStatusPending:
		return []VerificationStatus{VerificationStatusRejected}
	}
	return nil
}

// DeliveryMethod enumerates supported delivery channels.
type DeliveryMethod string

const (
	DeliveryHandToHand DeliveryMethod = "h2h"
	DeliveryLocker     DeliveryMethod = "inpost"
	DeliveryDrop       DeliveryMethod = "drop"
)

// Valid reports whether the delivery method is supported.
func (m DeliveryMethod) Valid() bool {
	return m == DeliveryHandToHand || m == DeliveryLocker || m == DeliveryDrop
}

// PaymentMethod enumerates supported payment channels.
type PaymentMethod string

const (
	PaymentBlik       PaymentMethod = "blik"
	PaymentStripe     PaymentMethod = "stripe"
	PaymentPrzelewy24 PaymentMethod = "przelewy24"
	PaymentCOD        PaymentMethod = "cod"
	PaymentTelegram   PaymentMethod = "telegram"
)

// Valid reports whether the payment method is supported.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentBlik, PaymentStripe, PaymentPrzelewy24, PaymentCOD, PaymentTelegram:
		return true
	}
	return false
}

// PaymentState describes payment settlement progress.
type PaymentState string

const (
	PaymentStatePending   PaymentState = "pending"
	PaymentStateConfirmed PaymentState = "confirmed"
	PaymentStateFailed    PaymentState = "failed"
)

// OrderItem is a single purchased line.
type OrderItem struct {
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Variant    string  `json:"variant,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// Customer holds buyer contact details. The telegram fields are written from
// the authenticated identity at creation time and never from client input.
type Customer struct {
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	TelegramUserID   int64  `json:"telegramUserId,omitempty"`
	TelegramChatID   int64  `json:"telegramChatId,omitempty"`
	TelegramUsername string `json:"telegramUsername,omitempty"`
}

// DeliveryInfo describes how the order is handed over.
type DeliveryInfo struct {
	Method         DeliveryMethod `json:"method"`
	LockerCode     string         `json:"lockerCode,omitempty"`
	PickupLocation string         `json:"pickupLocation,omitempty"`
	PickupTimeSlot string         `json:"pickupTimeSlot,omitempty"`
	PickupAlias    string         `json:"pickupAlias,omitempty"`
}

// PaymentInfo carries settlement details as supplied at checkout.
type PaymentInfo struct {
	Method         PaymentMethod `json:"method"`
	Status         PaymentState  `json:"status"`
	PaymentID      string        `json:"paymentId,omitempty"`
	Currency       string        `json:"currency"`
	Subtotal       float64       `json:"subtotal"`
	DeliveryCost   float64       `json:"deliveryCost"`
	Total          float64       `json:"total"`
	DiscountCode   string        `json:"discountCode,omitempty"`
	DiscountAmount float64       `json:"discountAmount"`
}

// VerificationInfo tracks the identity-video review attached to h2h orders.
type VerificationInfo struct {
	Required bool               `json:"required"`
	Status   VerificationStatus `json:"status,omitempty"`
	VideoURL string             `json:"videoUrl,omitempty"`
	Notes    string             `json:"notes,omitempty"`
}

// Order is the aggregate persisted by the store.
type Order struct {
	ID           string           `json:"id"`
	Customer     Customer         `json:"customer"`
	Items        []OrderItem      `json:"items"`
	Delivery     DeliveryInfo     `json:"delivery"`
	Payment      PaymentInfo      `json:"payment"`
	Verification VerificationInfo `json:"verification"`
	Status       OrderStatus      `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Notification is an intent to deliver a message to a customer chat.
type Notification struct {
	ChatID int64
	Text   string
}
