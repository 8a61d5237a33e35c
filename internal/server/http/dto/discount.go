package dto

// ValidateDiscountRequest prices a code against an order total.
type ValidateDiscountRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderTotal float64 `json:"orderTotal"`
}

// ValidateDiscountResponse is the pricing outcome.
type ValidateDiscountResponse struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discountAmount"`
	NewTotal       float64 `json:"newTotal"`
	Message        string  `json:"message"`
}

// UpsertDiscountRequest administratively creates or updates a code.
type UpsertDiscountRequest struct {
	Type          string   `json:"type" binding:"required"`
	Value         float64  `json:"value" binding:"required"`
	IsActive      bool     `json:"isActive"`
	UsageLimit    *int     `json:"usageLimit"`
	MinOrderValue *float64 `json:"minOrderValue"`
}
