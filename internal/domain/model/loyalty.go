package model

// LoyaltyStatus is the derived loyalty standing of a customer.
type LoyaltyStatus struct {
	Points             int
	Level              string
	NextLevelThreshold int
	Progress           float64
}
