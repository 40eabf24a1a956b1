// internal/domain/shipping/entity.go
package shipping

import "time"

// StaticRate is a seeded shipping rate used when the live rates API is
// unavailable or returns nothing usable for a carrier.
type StaticRate struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Carrier   string    `json:"carrier" gorm:"uniqueIndex;not null"` // normalized carrier key
	Label     string    `json:"label" gorm:"not null"`
	Price     int64     `json:"price" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the StaticRate model
func (StaticRate) TableName() string {
	return "shipping_rates"
}

// Rate is a priced shipping option offered at checkout
type Rate struct {
	Carrier  string `json:"carrier"`
	Label    string `json:"label"`
	Service  string `json:"service,omitempty"`
	Price    int64  `json:"price"`
	Fallback bool   `json:"fallback"`
}

// RateItem describes one parcel line sent to the rates API
type RateItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Value    int64  `json:"value"`
	Weight   int    `json:"weight"`
}

// RateRequest identifies the destination and parcel for a rate lookup.
// Items carry per-line detail; WeightGrams is the aggregate fallback used
// when no items are given.
type RateRequest struct {
	OriginAreaID      string     `json:"origin_area_id"`
	DestinationAreaID string     `json:"destination_area_id"`
	PostalCode        string     `json:"postal_code"`
	WeightGrams       int        `json:"weight_grams"`
	Items             []RateItem `json:"items"`
	Carriers          []string   `json:"carriers"`
}
