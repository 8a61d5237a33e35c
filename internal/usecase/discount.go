package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	domainErrors "github.com/telemart/storefront/internal/domain/errors"
	"github.com/telemart/storefront/internal/domain/model"
	"github.com/telemart/storefront/internal/domain/repository"
)

// DiscountUseCase prices promotion codes against order totals. Validation is
// read-only; usage is consumed separately when an order is finalized.
type DiscountUseCase struct {
	discounts repository.DiscountRepository
}

// NewDiscountUseCase constructs DiscountUseCase.
func NewDiscountUseCase(discounts repository.DiscountRepository) *DiscountUseCase {
	return &DiscountUseCase{discounts: discounts}
}

// Validate prices code against orderTotal. Unknown or unusable codes are a
// normal negative result, never an error.
func (u *DiscountUseCase) Validate(ctx context.Context, code string, orderTotal float64) (*model.DiscountValidation, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	discount, err := u.discounts.GetActive(ctx, normalized)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return &model.DiscountValidation{Valid: false, NewTotal: orderTotal, Message: "Invalid or inactive code."}, nil
		}
		return nil, err
	}

	if discount.UsageLimit != nil && discount.UsedCount >= *discount.UsageLimit {
		return &model.DiscountValidation{Valid: false, NewTotal: orderTotal, Message: "Usage limit for this code is exhausted."}, nil
	}

	if discount.MinOrderValue != nil && orderTotal < *discount.MinOrderValue {
		return &model.DiscountValidation{
			Valid:    false,
			NewTotal: orderTotal,
			Message:  fmt.Sprintf("Minimum order value required: %.2f", *discount.MinOrderValue),
		}, nil
	}

	var amount float64
	if discount.Type == model.DiscountPercentage {
		amount = discount.Value / 100 * orderTotal
	} else {
		amount = discount.Value
	}
	// A discount can never exceed the order total.
	amount = math.Min(amount, orderTotal)

	return &model.DiscountValidation{
		Valid:          true,
		DiscountAmount: round2(amount),
		NewTotal:       round2(orderTotal - amount),
		Message:        "Code applied successfully.",
	}, nil
}

// Upsert administratively creates or updates a discount code.
func (u *DiscountUseCase) Upsert(ctx context.Context, discount *model.DiscountCode) error {
	if discount == nil {
		return fmt.Errorf("%w: empty discount", domainErrors.ErrValidation)
	}
	discount.Code = strings.ToUpper(strings.TrimSpace(discount.Code))
	if discount.Code == "" {
		return fmt.Errorf("%w: discount code is required", domainErrors.ErrValidation)
	}
	if !discount.Type.Valid() {
		return fmt.Errorf("%w: unknown discount type %q", domainErrors.ErrValidation, discount.Type)
	}
	if discount.Value <= 0 {
		return fmt.Errorf("%w: discount value must be positive", domainErrors.ErrValidation)
	}
	if discount.UsageLimit != nil && *discount.UsageLimit <= 0 {
		return fmt.Errorf("%w: usage limit must be positive", domainErrors.ErrValidation)
	}
	if discount.MinOrderValue != nil && *discount.MinOrderValue < 0 {
		return fmt.Errorf("%w: minimum order value must not be negative", domainErrors.ErrValidation)
	}
	if discount.UsedCount < 0 {
		return fmt.Errorf("%w: used count must not be negative", domainErrors.ErrValidation)
	}
	return u.discounts.Upsert(ctx, discount)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
