// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents the product entity
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Slug          string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         int64          `gorm:"not null" json:"price"` // Whole rupiah
	Photo         string         `gorm:"size:500" json:"photo"`
	Category      string         `gorm:"size:100;index" json:"category"`
	Sizes         string         `gorm:"size:255" json:"sizes"`  // Comma-separated size options
	Weight        int            `gorm:"default:200" json:"weight"` // Grams, used for shipping rates
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	TrackQuantity bool           `gorm:"default:true" json:"track_quantity"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// InStock reports whether the requested quantity can be fulfilled
func (p *Product) InStock(quantity int) bool {
	if !p.TrackQuantity {
		return true
	}
	return p.Quantity >= quantity
}
