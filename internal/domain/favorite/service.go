// internal/domain/favorite/service.go
package favorite

import (
	"context"
	"fmt"

	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/infrastructure/events"
	"gorm.io/gorm"
)

// Service handles favorites business logic
type Service struct {
	db   *gorm.DB
	feed *events.Feed
}

// NewService creates a new favorites service
func NewService(db *gorm.DB, feed *events.Feed) *Service {
	return &Service{db: db, feed: feed}
}

// ToggleResult reports the outcome of a favorite toggle
type ToggleResult struct {
	ProductID uint   `json:"product_id"`
	Status    string `json:"status"` // "added" or "removed"
}

// Toggle adds the product to the user's favorites if absent, removes it if
// present, and reports which of the two happened.
func (s *Service) Toggle(ctx context.Context, userID, productID uint) (*ToggleResult, error) {
	var prod product.Product
	if err := s.db.Where("id = ? AND is_active = ?", productID, true).First(&prod).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	var existing Favorite
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		fav := Favorite{UserID: userID, ProductID: productID}
		if err := s.db.Create(&fav).Error; err != nil {
			return nil, fmt.Errorf("failed to add favorite: %w", err)
		}
		s.feed.Publish(ctx, events.TableFavorites, events.ActionInsert, userID, fav.ID)
		return &ToggleResult{ProductID: productID, Status: "added"}, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", result.Error)
	}

	if err := s.db.Delete(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to remove favorite: %w", err)
	}
	s.feed.Publish(ctx, events.TableFavorites, events.ActionDelete, userID, existing.ID)
	return &ToggleResult{ProductID: productID, Status: "removed"}, nil
}

// List returns the user's favorites newest first, with product details
func (s *Service) List(userID uint) ([]Favorite, error) {
	var favorites []Favorite
	err := s.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at desc").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve favorites: %w", err)
	}
	return favorites, nil
}

// IsFavorite reports whether a product is in the user's favorites
func (s *Service) IsFavorite(userID, productID uint) (bool, error) {
	var count int64
	err := s.db.Model(&Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}
