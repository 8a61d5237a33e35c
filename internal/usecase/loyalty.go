package usecase

import (
	"context"
	"math"

	"github.com/telemart/storefront/internal/domain/model"
	"github.com/telemart/storefront/internal/domain/repository"
)

// loyaltyLevels is the ascending threshold table; the current level is the
// highest threshold not exceeding the point total.
var loyaltyLevels = []struct {
	Threshold int
	Name      string
}{
	{0, "Newcomer"},
	{100, "Insider"},
	{500, "Trusted Client"},
	{1000, "VIP"},
	{5000, "Chief"},
	{10000, "Boss"},
}

const guestLevel = "Guest"

// qualifyingStatuses counts toward loyalty points. The last three are legacy
// statuses still present on historical orders.
var qualifyingStatuses = []model.OrderStatus{
	model.OrderStatusPaymentConfirmed,
	"completed",
	"shipped",
	"delivered",
}

// LoyaltyUseCase derives loyalty standing from historical qualifying spend.
type LoyaltyUseCase struct {
	orders repository.OrderRepository
}

// NewLoyaltyUseCase constructs LoyaltyUseCase.
func NewLoyaltyUseCase(orders repository.OrderRepository) *LoyaltyUseCase {
	return &LoyaltyUseCase{orders: orders}
}

// Status computes the loyalty standing for the identity. Unauthenticated
// callers receive a fixed guest status; absence is never an error.
func (u *LoyaltyUseCase) Status(ctx context.Context, identity *model.TelegramIdentity) (*model.LoyaltyStatus, error) {
	if !identity.Authenticated() {
		return &model.LoyaltyStatus{Points: 0, Level: guestLevel, NextLevelThreshold: loyaltyLevels[1].Threshold, Progress: 0}, nil
	}

	totalSpent, err := u.orders.SumQualifyingSpend(ctx, identity.UserID, qualifyingStatuses)
	if err != nil {
		return nil, err
	}

	// 1 point per currency unit.
	points := int(math.Floor(totalSpent))
	level, nextThreshold := calculateLevel(points)

	progress := 100.0
	if nextThreshold > points {
		progress = float64(points) / float64(nextThreshold) * 100
	}
	progress = math.Round(progress*10) / 10
	if progress > 100 {
		progress = 100
	}

	return &model.LoyaltyStatus{
		Points:             points,
		Level:              level,
		NextLevelThreshold: nextThreshold,
		Progress:           progress,
	}, nil
}

// calculateLevel returns the current level name and the next threshold to
// reach. At the top tier the next threshold equals the point total itself.
func calculateLevel(points int) (string, int) {
	level := loyaltyLevels[0].Name
	next := loyaltyLevels[1].Threshold

	for i, l := range loyaltyLevels {
		if points >= l.Threshold {
			level = l.Name
			if i+1 < len(loyaltyLevels) {
				next = loyaltyLevels[i+1].Threshold
			} else {
				next = points
			}
		}
	}

	return level, next
}
