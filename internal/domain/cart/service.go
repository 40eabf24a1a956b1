// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/infrastructure/events"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	feed        *events.Feed
	logger      *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, feed *events.Feed, logger *logrus.Logger) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		feed:        feed,
		logger:      logger,
	}
}

// CartItemResponse represents a cart line with its product snapshot
type CartItemResponse struct {
	ID        string           `json:"id"`
	ProductID uint             `json:"product_id"`
	Size      string           `json:"size"`
	Quantity  int              `json:"quantity"`
	Price     int64            `json:"price"`
	Product   *product.Product `json:"product,omitempty"`
	AddedAt   time.Time        `json:"added_at"`
}

// CartResponse represents a shopping cart with items and totals
type CartResponse struct {
	SessionID string             `json:"session_id,omitempty"`
	UserID    *uint              `json:"user_id,omitempty"`
	Items     []CartItemResponse `json:"items"`
	Totals    CartTotals         `json:"totals"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
}

// UpdateItemRequest represents a quantity update request
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=0"`
}

// GetCart retrieves the cart for a user or guest session
func (s *Service) GetCart(ctx context.Context, userID *uint, sessionID string) (*CartResponse, error) {
	var cartItems []CartItemResponse
	var updatedAt time.Time

	if userID != nil {
		var dbItems []CartItem
		err := s.db.Where("user_id = ?", *userID).Order("created_at asc").Find(&dbItems).Error
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve user cart: %w", err)
		}

		cartItems = make([]CartItemResponse, len(dbItems))
		for i, item := range dbItems {
			cartItems[i] = CartItemResponse{
				ID:        strconv.FormatUint(uint64(item.ID), 10),
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  item.Quantity,
				Price:     item.Price,
				AddedAt:   item.CreatedAt,
			}
			if item.UpdatedAt.After(updatedAt) {
				updatedAt = item.UpdatedAt
			}
		}
	} else {
		sessionCart, err := s.getGuestCart(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		cartItems = make([]CartItemResponse, len(sessionCart.Items))
		for i, item := range sessionCart.Items {
			cartItems[i] = CartItemResponse{
				ID:        item.ID,
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  item.Quantity,
				Price:     item.Price,
				AddedAt:   item.AddedAt,
			}
		}
		updatedAt = sessionCart.UpdatedAt
	}

	if err := s.loadProductDetails(cartItems); err != nil {
		return nil, err
	}

	return &CartResponse{
		SessionID: sessionID,
		UserID:    userID,
		Items:     cartItems,
		Totals:    CalculateTotals(cartItems),
		UpdatedAt: updatedAt,
	}, nil
}

// AddItem adds a product to the cart. An existing line with the same
// (product, size) pair accumulates quantity instead of duplicating.
func (s *Service) AddItem(ctx context.Context, userID *uint, sessionID string, req *AddItemRequest) (*CartResponse, error) {
	var prod product.Product
	result := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod)
	if result.Error != nil {
		return nil, fmt.Errorf("product not found or inactive")
	}

	if !prod.InStock(req.Quantity) {
		return nil, fmt.Errorf("insufficient stock. Available: %d", prod.Quantity)
	}

	if userID != nil {
		if err := s.addToUserCart(ctx, *userID, &prod, req.Quantity, req.Size); err != nil {
			return nil, err
		}
	} else {
		if err := s.addToGuestCart(ctx, sessionID, &prod, req.Quantity, req.Size); err != nil {
			return nil, err
		}
	}

	return s.GetCart(ctx, userID, sessionID)
}

// UpdateItemQuantity sets the quantity of a cart line; zero removes it.
// Temporary ids are handled the same way RemoveItem handles them.
func (s *Service) UpdateItemQuantity(ctx context.Context, userID *uint, sessionID, itemID string, quantity int) (*CartResponse, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	if IsTemporaryItemID(itemID) {
		// Still in the optimistic phase on the client; nothing persisted yet
		return s.GetCart(ctx, userID, sessionID)
	}

	if quantity == 0 {
		if _, err := s.RemoveItem(ctx, userID, sessionID, itemID); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, userID, sessionID)
	}

	if userID != nil {
		rowID, err := parseItemID(itemID)
		if err != nil {
			return nil, err
		}

		var item CartItem
		if err := s.db.Where("id = ? AND user_id = ?", rowID, *userID).First(&item).Error; err != nil {
			return nil, fmt.Errorf("item not found in cart")
		}

		var prod product.Product
		if err := s.db.Where("id = ?", item.ProductID).First(&prod).Error; err == nil && !prod.InStock(quantity) {
			return nil, fmt.Errorf("insufficient stock. Available: %d", prod.Quantity)
		}

		if err := s.db.Model(&item).Update("quantity", quantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}

		s.feed.Publish(ctx, events.TableCartItems, events.ActionUpdate, *userID, item.ID)
	} else {
		if err := s.updateGuestCartItem(ctx, sessionID, itemID, quantity); err != nil {
			return nil, err
		}
	}

	return s.GetCart(ctx, userID, sessionID)
}

// RemoveItem removes a cart line by id. Client-generated temporary ids are
// never sent to the backing store: the call is a pure no-op and reports
// removed=false.
func (s *Service) RemoveItem(ctx context.Context, userID *uint, sessionID, itemID string) (bool, error) {
	if IsTemporaryItemID(itemID) {
		return false, nil
	}

	if userID != nil {
		rowID, err := parseItemID(itemID)
		if err != nil {
			return false, err
		}

		result := s.db.Where("id = ? AND user_id = ?", rowID, *userID).Delete(&CartItem{})
		if result.Error != nil {
			return false, fmt.Errorf("failed to remove cart item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return false, nil
		}

		s.feed.Publish(ctx, events.TableCartItems, events.ActionDelete, *userID, rowID)
		return true, nil
	}

	return s.removeGuestCartItem(ctx, sessionID, itemID)
}

// ClearCart removes all items from the cart
func (s *Service) ClearCart(ctx context.Context, userID *uint, sessionID string) error {
	if userID != nil {
		if err := s.db.Where("user_id = ?", *userID).Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		s.feed.Publish(ctx, events.TableCartItems, events.ActionDelete, *userID, 0)
		return nil
	}

	return s.redisClient.Del(ctx, guestCartKey(sessionID)).Err()
}

// MergeGuestCartToUser merges a guest cart into the user cart at login
func (s *Service) MergeGuestCartToUser(ctx context.Context, userID uint, sessionID string) error {
	guestCart, err := s.getGuestCart(ctx, sessionID)
	if err != nil || len(guestCart.Items) == 0 {
		return nil // No guest cart to merge
	}

	merged := true
	for _, guestItem := range guestCart.Items {
		var existing CartItem
		result := s.db.Where("user_id = ? AND product_id = ? AND size = ?",
			userID, guestItem.ProductID, guestItem.Size).First(&existing)

		var err error
		if result.Error == gorm.ErrRecordNotFound {
			newItem := CartItem{
				UserID:    userID,
				ProductID: guestItem.ProductID,
				Size:      guestItem.Size,
				Quantity:  guestItem.Quantity,
				Price:     guestItem.Price,
			}
			err = s.db.Create(&newItem).Error
		} else if result.Error != nil {
			err = result.Error
		} else {
			existing.Quantity += guestItem.Quantity
			err = s.db.Save(&existing).Error
		}

		if err != nil {
			merged = false
			s.logger.WithError(err).WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": guestItem.ProductID,
			}).Warn("failed to merge guest cart item")
		}
	}

	s.feed.Publish(ctx, events.TableCartItems, events.ActionUpdate, userID, 0)

	if !merged {
		// Keep the guest cart so unmerged lines survive a retry
		return fmt.Errorf("some guest cart items could not be merged")
	}

	return s.redisClient.Del(ctx, guestCartKey(sessionID)).Err()
}

// CalculateTotals computes cart totals from the line items
func CalculateTotals(items []CartItemResponse) CartTotals {
	var totals CartTotals

	totals.ItemCount = len(items)
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.Price * int64(item.Quantity)
	}

	totals.TotalAmount = totals.SubTotal + totals.ShippingCost - totals.DiscountAmount
	return totals
}

// Private helper methods

func parseItemID(itemID string) (uint, error) {
	rowID, err := strconv.ParseUint(itemID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid cart item id")
	}
	return uint(rowID), nil
}

func (s *Service) addToUserCart(ctx context.Context, userID uint, prod *product.Product, quantity int, size string) error {
	var existing CartItem
	result := s.db.Where("user_id = ? AND product_id = ? AND size = ?",
		userID, prod.ID, size).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		newItem := CartItem{
			UserID:    userID,
			ProductID: prod.ID,
			Size:      size,
			Quantity:  quantity,
			Price:     prod.Price,
		}
		if err := s.db.Create(&newItem).Error; err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		s.feed.Publish(ctx, events.TableCartItems, events.ActionInsert, userID, newItem.ID)
		return nil
	}

	newQuantity := existing.Quantity + quantity
	if !prod.InStock(newQuantity) {
		return fmt.Errorf("insufficient stock for total quantity. Available: %d", prod.Quantity)
	}

	existing.Quantity = newQuantity
	existing.Price = prod.Price // Refresh in case price changed
	if err := s.db.Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	s.feed.Publish(ctx, events.TableCartItems, events.ActionUpdate, userID, existing.ID)
	return nil
}

func (s *Service) addToGuestCart(ctx context.Context, sessionID string, prod *product.Product, quantity int, size string) error {
	sessionCart, err := s.getGuestCart(ctx, sessionID)
	if err != nil {
		return err
	}

	items, err := upsertSessionItem(sessionCart.Items, prod, quantity, size)
	if err != nil {
		return err
	}

	sessionCart.Items = items
	sessionCart.UpdatedAt = time.Now().UTC()
	return s.saveGuestCart(ctx, sessionID, sessionCart)
}

// upsertSessionItem adds a product to a guest cart's item list. An existing
// line with the same (product, size) pair accumulates quantity; anything
// else appends a new line.
func upsertSessionItem(items []SessionCartItem, prod *product.Product, quantity int, size string) ([]SessionCartItem, error) {
	for i := range items {
		if items[i].ProductID == prod.ID && items[i].Size == size {
			newQuantity := items[i].Quantity + quantity
			if !prod.InStock(newQuantity) {
				return nil, fmt.Errorf("insufficient stock for total quantity. Available: %d", prod.Quantity)
			}
			items[i].Quantity = newQuantity
			items[i].Price = prod.Price
			return items, nil
		}
	}

	return append(items, SessionCartItem{
		ID:        uuid.New().String(),
		ProductID: prod.ID,
		Size:      size,
		Quantity:  quantity,
		Price:     prod.Price,
		AddedAt:   time.Now().UTC(),
	}), nil
}

func (s *Service) updateGuestCartItem(ctx context.Context, sessionID, itemID string, quantity int) error {
	sessionCart, err := s.getGuestCart(ctx, sessionID)
	if err != nil {
		return err
	}

	for i := range sessionCart.Items {
		if sessionCart.Items[i].ID == itemID {
			sessionCart.Items[i].Quantity = quantity
			sessionCart.UpdatedAt = time.Now().UTC()
			return s.saveGuestCart(ctx, sessionID, sessionCart)
		}
	}

	return fmt.Errorf("item not found in cart")
}

func (s *Service) removeGuestCartItem(ctx context.Context, sessionID, itemID string) (bool, error) {
	sessionCart, err := s.getGuestCart(ctx, sessionID)
	if err != nil {
		return false, err
	}

	for i := range sessionCart.Items {
		if sessionCart.Items[i].ID == itemID {
			sessionCart.Items = append(sessionCart.Items[:i], sessionCart.Items[i+1:]...)
			sessionCart.UpdatedAt = time.Now().UTC()
			return true, s.saveGuestCart(ctx, sessionID, sessionCart)
		}
	}

	return false, nil
}

func guestCartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) getGuestCart(ctx context.Context, sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for guest cart")
	}

	cartData, err := s.redisClient.Get(ctx, guestCartKey(sessionID)).Result()
	if err == redis.Nil {
		now := time.Now().UTC()
		return &SessionCart{
			SessionID: sessionID,
			Items:     []SessionCartItem{},
			CreatedAt: now,
			UpdatedAt: now,
			ExpiresAt: now.Add(24 * time.Hour),
		}, nil
	} else if err != nil {
		return nil, err
	}

	var sessionCart SessionCart
	if err := json.Unmarshal([]byte(cartData), &sessionCart); err != nil {
		return nil, err
	}

	return &sessionCart, nil
}

func (s *Service) saveGuestCart(ctx context.Context, sessionID string, cart *SessionCart) error {
	cartData, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return s.redisClient.Set(ctx, guestCartKey(sessionID), cartData, 24*time.Hour).Err()
}

func (s *Service) loadProductDetails(cartItems []CartItemResponse) error {
	for i := range cartItems {
		var prod product.Product
		err := s.db.Where("id = ?", cartItems[i].ProductID).First(&prod).Error
		if err != nil {
			continue // Skip if product not found
		}
		cartItems[i].Product = &prod
	}
	return nil
}
