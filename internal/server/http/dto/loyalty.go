package dto

// LoyaltyResponse describes the caller's loyalty standing.
type LoyaltyResponse struct {
	Points             int     `json:"points"`
	Level              string  `json:"level"`
	NextLevelThreshold int     `json:"nextLevelThreshold"`
	Progress           float64 `json:"progress"`
}
