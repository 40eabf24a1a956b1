// internal/domain/checkout/voucher.go
package checkout

import (
	"fmt"
	"strings"
	"time"
)

// Voucher discount types
const (
	VoucherTypePercentage = "percentage"
	VoucherTypeFixed      = "fixed"
)

// Voucher is a discount code
type Voucher struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Code          string     `json:"code" gorm:"uniqueIndex;not null"`
	Type          string     `json:"type" gorm:"not null"` // percentage or fixed
	Value         int64      `json:"value" gorm:"not null"`
	MinOrderValue int64      `json:"min_order_value" gorm:"default:0"`
	MaxDiscount   int64      `json:"max_discount" gorm:"default:0"`
	UsageLimit    int        `json:"usage_limit" gorm:"default:0"`
	UsedCount     int        `json:"used_count" gorm:"default:0"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Voucher model
func (Voucher) TableName() string {
	return "vouchers"
}

// NormalizeVoucherCode canonicalizes a user-entered voucher code
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks whether the voucher applies to an order of the given
// subtotal at the given time.
func (v *Voucher) Validate(subTotal int64, now time.Time) error {
	if !v.IsActive {
		return fmt.Errorf("voucher is not active")
	}
	if v.ExpiresAt != nil && now.After(*v.ExpiresAt) {
		return fmt.Errorf("voucher has expired")
	}
	if v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit {
		return fmt.Errorf("voucher usage limit reached")
	}
	if subTotal < v.MinOrderValue {
		return fmt.Errorf("minimum order value of %d not met", v.MinOrderValue)
	}
	return nil
}

// DiscountFor computes the discount amount for a subtotal. Percentage
// discounts are capped at MaxDiscount when set; the discount never exceeds
// the subtotal.
func (v *Voucher) DiscountFor(subTotal int64) int64 {
	var discount int64
	switch v.Type {
	case VoucherTypePercentage:
		discount = subTotal * v.Value / 100
		if v.MaxDiscount > 0 && discount > v.MaxDiscount {
			discount = v.MaxDiscount
		}
	case VoucherTypeFixed:
		discount = v.Value
	}

	if discount > subTotal {
		discount = subTotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
