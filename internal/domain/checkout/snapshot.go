// internal/domain/checkout/snapshot.go
package checkout

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// SnapshotItem is a cart line frozen at pra-checkout time
type SnapshotItem struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// PraCheckout is the write-once snapshot taken when the user proceeds to
// checkout. Submission consumes it; a consumed snapshot cannot be reused.
type PraCheckout struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"not null;index"`
	ItemsJSON      string     `json:"-" gorm:"column:items;type:jsonb;not null"`
	SubTotal       int64      `json:"sub_total" gorm:"not null"`
	DiscountAmount int64      `json:"discount_amount" gorm:"default:0"`
	VoucherCode    string     `json:"voucher_code,omitempty"`
	TotalAmount    int64      `json:"total_amount" gorm:"not null"`
	ConsumedAt     *time.Time `json:"consumed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	Items []SnapshotItem `json:"items" gorm:"-"`
}

// TableName returns the table name for the PraCheckout model
func (PraCheckout) TableName() string {
	return "pra_checkouts"
}

// BeforeSave serializes the item snapshot
func (p *PraCheckout) BeforeSave(tx *gorm.DB) error {
	data, err := json.Marshal(p.Items)
	if err != nil {
		return err
	}
	p.ItemsJSON = string(data)
	return nil
}

// AfterFind deserializes the item snapshot
func (p *PraCheckout) AfterFind(tx *gorm.DB) error {
	if p.ItemsJSON == "" {
		p.Items = []SnapshotItem{}
		return nil
	}
	return json.Unmarshal([]byte(p.ItemsJSON), &p.Items)
}

// IsConsumed reports whether the snapshot was already used by a submission
func (p *PraCheckout) IsConsumed() bool {
	return p.ConsumedAt != nil
}
