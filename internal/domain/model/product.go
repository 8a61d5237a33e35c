package model

// Product is a catalog entry shown in the mini-app.
type Product struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Price                float64        `json:"price"`
	Image                string         `json:"image"`
	Category             string         `json:"category"`
	Variants             []string       `json:"variants"`
	Stock                map[string]int `json:"stock"`
	RequiresVerification bool           `json:"requiresVerification"`
	Featured             bool           `json:"featured"`
	AgeRestricted        bool           `json:"ageRestricted"`
}
