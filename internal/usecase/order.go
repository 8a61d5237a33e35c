package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/telemart/storefront/internal/domain/errors"
	"github.com/telemart/storefront/internal/domain/model"
	"github.com/telemart/storefront/internal/domain/repository"
	"github.com/telemart/storefront/internal/pkg/orderid"
)

var timeNow = time.Now

// NotificationDispatcher accepts notification intents without blocking.
type NotificationDispatcher interface {
	Dispatch(n model.Notification)
}

// OrderUseCase encapsulates the order lifecycle: creation, ownership-scoped
// reads and the administrative status/verification workflow.
type OrderUseCase struct {
	orders        repository.OrderRepository
	notifications NotificationDispatcher
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, notifications NotificationDispatcher) *OrderUseCase {
	return &OrderUseCase{orders: orders, notifications: notifications}
}

// Create persists a new order on behalf of the authenticated identity. The
// identity is authoritative for the customer's telegram fields; whatever the
// client sent there is overwritten. Hand-to-hand deliveries start in the
// verification queue, everything else starts payment_confirmed.
func (u *OrderUseCase) Create(ctx context.Context, draft *model.Order, identity *model.TelegramIdentity) (*model.Order, error) {
	if !identity.Authenticated() {
		return nil, domainErrors.ErrForbidden
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	now := timeNow().UTC()

	order := *draft
	order.ID = orderid.New(now)
	order.CreatedAt = now
	order.UpdatedAt = now

	order.Customer.TelegramUserID = identity.UserID
	order.Customer.TelegramChatID = identity.UserID
	order.Customer.TelegramUsername = identity.Username

	order.Verification.Required = order.Delivery.Method == model.DeliveryHandToHand
	if order.Verification.Required {
		order.Verification.Status = model.VerificationStatusPending
		order.Status = model.OrderStatusVerificationPending
	} else {
		order.Status = model.OrderStatusPaymentConfirmed
	}

	var consumeCode string
	if order.Payment.DiscountCode != "" && order.Payment.DiscountAmount > 0 {
		consumeCode = strings.ToUpper(strings.TrimSpace(order.Payment.DiscountCode))
		order.Payment.DiscountCode = consumeCode
	}

	if err := u.orders.Create(ctx, &order, consumeCode); err != nil {
		switch err {
		case domainErrors.ErrNotFound, domainErrors.ErrUsageExceeded:
			return nil, fmt.Errorf("%w: discount code cannot be applied", domainErrors.ErrValidation)
		}
		return nil, err
	}

	return &order, nil
}

func validateDraft(draft *model.Order) error {
	if draft == nil {
		return fmt.Errorf("%w: empty order", domainErrors.ErrValidation)
	}
	if strings.TrimSpace(draft.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", domainErrors.ErrValidation)
	}
	if !draft.Delivery.Method.Valid() {
		return fmt.Errorf("%w: unknown delivery method %q", domainErrors.ErrValidation, draft.Delivery.Method)
	}
	if !draft.Payment.Method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", domainErrors.ErrValidation, draft.Payment.Method)
	}
	if len(draft.Items) == 0 {
		return fmt.Errorf("%w: order has no items", domainErrors.ErrValidation)
	}
	for _, item := range draft.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %q has non-positive quantity", domainErrors.ErrValidation, item.ProductID)
		}
		if item.UnitPrice < 0 || item.TotalPrice < 0 {
			return fmt.Errorf("%w: item %q has negative price", domainErrors.ErrValidation, item.ProductID)
		}
	}
	if draft.Payment.Subtotal < 0 || draft.Payment.DeliveryCost < 0 || draft.Payment.Total < 0 {
		return fmt.Errorf("%w: negative payment amount", domainErrors.ErrValidation)
	}
	return nil
}

// GetForUser returns the order only when the caller owns it.
func (u *OrderUseCase) GetForUser(ctx context.Context, id string, userID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Customer.TelegramUserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// ListForUser returns the caller's orders, newest first.
func (u *OrderUseCase) ListForUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByTelegramUser(ctx, userID)
}

// SetStatus performs an administrative lifecycle transition. The target must
// be a known status reachable from the order's current status; the update is
// a single atomic read-modify-write and the notification is composed from the
// state actually persisted.
func (u *OrderUseCase) SetStatus(ctx context.Context, id, rawStatus string) (*model.Order, error) {
	status := model.OrderStatus(rawStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrValidation, rawStatus)
	}

	order, err := u.orders.UpdateStatus(ctx, id, status, model.TransitionSources(status))
	if err != nil {
		return nil, err
	}

	u.notify(order.Customer.TelegramChatID, statusText(order.ID, order.Status))
	return order, nil
}

// SetVerificationStatus updates the identity-video review outcome. Approval
// and rejection each notify the customer with role-specific guidance. The
// top-level order status is not advanced here.
func (u *OrderUseCase) SetVerificationStatus(ctx context.Context, id, rawStatus string) (*model.Order, error) {
	status := model.VerificationStatus(rawStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown verification status %q", domainErrors.ErrValidation, rawStatus)
	}

	order, err := u.orders.UpdateVerificationStatus(ctx, id, status, model.VerificationTransitionSources(status))
	if err != nil {
		return nil, err
	}

	switch status {
	case model.VerificationStatusApproved:
		u.notify(order.Customer.TelegramChatID, verificationApprovedText(order.ID))
	case model.VerificationStatusRejected:
		u.notify(order.Customer.TelegramChatID, verificationRejectedText(order.ID))
	}

	return order, nil
}

// VerificationQueue lists orders awaiting identity-video review.
func (u *OrderUseCase) VerificationQueue(ctx context.Context) ([]model.Order, error) {
	return u.orders.ListVerificationQueue(ctx)
}

// HandToHandOrders lists h2h orders for the requested day window. Days other
// than today/tomorrow disable the window filter.
func (u *OrderUseCase) HandToHandOrders(ctx context.Context, day string) ([]model.Order, error) {
	from, to := dayWindow(day)
	return u.orders.ListHandToHand(ctx, from, to)
}

func dayWindow(day string) (time.Time, time.Time) {
	now := timeNow().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch day {
	case "today":
		return midnight, midnight.AddDate(0, 0, 1)
	case "tomorrow":
		return midnight.AddDate(0, 0, 1), midnight.AddDate(0, 0, 2)
	}
	return time.Time{}, time.Time{}
}

func (u *OrderUseCase) notify(chatID int64, text string) {
	if chatID == 0 {
		return
	}
	u.notifications.Dispatch(model.Notification{ChatID: chatID, Text: text})
}

var statusMessages = map[model.OrderStatus]string{
	model.OrderStatusReadyForH2H:   "Your order is ready. The crew is set, we go by your time slot.",
	model.OrderStatusInProgressH2H: "Hand-off in progress. Be at the spot, stay reachable.",
	model.OrderStatusCompletedH2H:  "Hand-off completed. Thanks, see you next time.",
	model.OrderStatusCancelled:     "Order cancelled. You can always place a new one.",
}

func statusText(orderID string, status model.OrderStatus) string {
	extra, ok := statusMessages[status]
	if !ok {
		extra = fmt.Sprintf("New status: %s", status)
	}
	return fmt.Sprintf("Order %s status update:\n%s", orderID, extra)
}

func verificationApprovedText(orderID string) string {
	return fmt.Sprintf("Verification for order %s approved.\nSee you at the agreed spot. Bring your phone, the cash and the password.", orderID)
}

func verificationRejectedText(orderID string) string {
	return fmt.Sprintf("Verification for order %s rejected.\nThe recording did not pass (poor quality / missing order number / no face).\nPlease record it again in the mini-app: face, alias and order number.", orderID)
}
