// internal/domain/cart/entity.go
package cart

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// TempIDPrefix marks client-generated item ids for rows still in the
// optimistic phase. Such ids never reach the backing store: a remove against
// one is a pure no-op.
const TempIDPrefix = "tmp-"

// IsTemporaryItemID reports whether an item id is a client-generated
// temporary id.
func IsTemporaryItemID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// CartItem represents a cart line stored in the database for authenticated
// users. One row per (user, product, size); adding the same pair again
// accumulates quantity.
type CartItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Size      string         `gorm:"size:20" json:"size"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	Price     int64          `gorm:"not null" json:"price"` // Price at time of adding
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// SessionCart represents a cart for guest users (stored in Redis)
type SessionCart struct {
	SessionID string            `json:"session_id"`
	Items     []SessionCartItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// SessionCartItem represents a cart line for guest users
type SessionCartItem struct {
	ID        string    `json:"id"`
	ProductID uint      `json:"product_id"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
	AddedAt   time.Time `json:"added_at"`
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount      int   `json:"item_count"`     // Number of unique lines
	TotalQuantity  int   `json:"total_quantity"` // Sum of all quantities
	SubTotal       int64 `json:"sub_total"`
	DiscountAmount int64 `json:"discount_amount"`
	ShippingCost   int64 `json:"shipping_cost"`
	TotalAmount    int64 `json:"total_amount"`
}
