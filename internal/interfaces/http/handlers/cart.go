// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints for both users and guests
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// identity resolves the cart owner: an authenticated user id when present,
// otherwise the guest session id.
func identity(c *gin.Context) (*uint, string) {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return &userID, middleware.GetSessionIDFromContext(c)
	}
	return nil, middleware.GetSessionIDFromContext(c)
}

// GetCart returns the current cart with totals
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, sessionID := identity(c)

	response, err := h.cartService.GetCart(c.Request.Context(), userID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    response,
	})
}

// AddItem adds a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, sessionID := identity(c)

	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.cartService.AddItem(c.Request.Context(), userID, sessionID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    response,
	})
}

// UpdateItem changes a cart line's quantity
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, sessionID := identity(c)
	itemID := c.Param("id")

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.cartService.UpdateItemQuantity(c.Request.Context(), userID, sessionID, itemID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated",
		"data":    response,
	})
}

// RemoveItem removes a cart line. Temporary client-side ids succeed as
// no-ops so optimistic removals never error.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, sessionID := identity(c)
	itemID := c.Param("id")

	removed, err := h.cartService.RemoveItem(c.Request.Context(), userID, sessionID, itemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    gin.H{"removed": removed},
	})
}

// ClearCart removes all items
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, sessionID := identity(c)

	if err := h.cartService.ClearCart(c.Request.Context(), userID, sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}
