package model

// DiscountType distinguishes percentage and fixed-amount codes.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether the discount type is known.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// DiscountCode is an administratively managed promotion code.
type DiscountCode struct {
	Code          string       `json:"code"`
	Type          DiscountType `json:"type"`
	Value         float64      `json:"value"`
	IsActive      bool         `json:"isActive"`
	UsageLimit    *int         `json:"usageLimit,omitempty"`
	UsedCount     int          `json:"usedCount"`
	MinOrderValue *float64     `json:"minOrderValue,omitempty"`
}

// DiscountValidation is the outcome of pricing a code against an order total.
type DiscountValidation struct {
	Valid          bool
	DiscountAmount float64
	NewTotal       float64
	Message        string
}
