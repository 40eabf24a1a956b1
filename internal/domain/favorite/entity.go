// internal/domain/favorite/entity.go
package favorite

import (
	"time"

	"github.com/your-org/storefront-api/internal/domain/product"
)

// Favorite represents a product saved by a user
type Favorite struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;uniqueIndex:idx_favorites_user_product"`
	ProductID uint             `json:"product_id" gorm:"not null;uniqueIndex:idx_favorites_user_product"`
	Product   *product.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName returns the table name for the Favorite model
func (Favorite) TableName() string {
	return "favorites"
}
