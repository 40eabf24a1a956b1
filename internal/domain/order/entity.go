// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// validTransitions maps each status to the statuses it may move to.
// Terminal states have no outgoing edges.
var validTransitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted, StatusPending, StatusCancelled},
	StatusSubmitted: {StatusPending, StatusFailed, StatusCancelled},
	StatusPending:   {StatusPaid, StatusSuccess, StatusFailed, StatusCancelled},
	StatusPaid:      {StatusSuccess},
	StatusSuccess:   {},
	StatusFailed:    {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether the status may move to target
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Order represents a submitted checkout
type Order struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OrderNumber string `json:"order_number" gorm:"uniqueIndex;not null"`
	UserID      uint   `json:"user_id" gorm:"not null;index"`
	Status      Status `json:"status" gorm:"not null;default:'pending';index"`

	SubTotal       int64 `json:"sub_total" gorm:"not null"`
	DiscountAmount int64 `json:"discount_amount" gorm:"default:0"`
	ShippingCost   int64 `json:"shipping_cost" gorm:"default:0"`
	TotalAmount    int64 `json:"total_amount" gorm:"not null"`

	VoucherCode string `json:"voucher_code,omitempty"`

	// Shipping snapshot, denormalized at submission time
	RecipientName  string `json:"recipient_name" gorm:"not null"`
	RecipientPhone string `json:"recipient_phone" gorm:"not null"`
	Street         string `json:"street" gorm:"not null"`
	Province       string `json:"province"`
	Regency        string `json:"regency"`
	District       string `json:"district"`
	Village        string `json:"village"`
	PostalCode     string `json:"postal_code"`
	Carrier        string `json:"carrier"`

	// Payment details filled from the gateway response
	PaymentMethod    string     `json:"payment_method"`
	PaymentReference string     `json:"payment_reference,omitempty" gorm:"index"`
	CheckoutURL      string     `json:"checkout_url,omitempty"`
	PayCode          string     `json:"pay_code,omitempty"`
	QRURL            string     `json:"qr_url,omitempty"`
	PaymentExpiresAt *time.Time `json:"payment_expires_at,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a priced line inside an order
type OrderItem struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OrderID     uint   `json:"order_id" gorm:"not null;index"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name" gorm:"not null"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity" gorm:"not null"`
	UnitPrice   int64  `json:"unit_price" gorm:"not null"`
	TotalPrice  int64  `json:"total_price" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// GenerateOrderNumber creates a unique, human-readable order number
func GenerateOrderNumber(id uint) string {
	return fmt.Sprintf("ORD-%s-%06d", time.Now().UTC().Format("20060102"), id)
}
