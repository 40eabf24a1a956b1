// internal/interfaces/http/handlers/favorite.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/favorite"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
)

// FavoriteHandler handles favorites endpoints
type FavoriteHandler struct {
	favoriteService *favorite.Service
}

// NewFavoriteHandler creates a new favorites handler
func NewFavoriteHandler(favoriteService *favorite.Service) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Toggle flips a product's favorite membership for the user
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	result, err := h.favoriteService.Toggle(c.Request.Context(), userID, uint(productID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorite " + result.Status,
		"data":    result,
	})
}

// Status reports whether a product is in the user's favorites, letting
// product pages render the heart state without loading the whole list.
func (h *FavoriteHandler) Status(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	isFavorite, err := h.favoriteService.IsFavorite(userID, uint(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorite status retrieved",
		"data":    gin.H{"product_id": uint(productID), "is_favorite": isFavorite},
	})
}

// List returns the user's favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	favorites, err := h.favoriteService.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorites retrieved successfully",
		"data":    favorites,
	})
}
