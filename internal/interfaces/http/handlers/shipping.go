// internal/interfaces/http/handlers/shipping.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/shipping"
)

// ShippingHandler handles shipping rate endpoints
type ShippingHandler struct {
	resolver *shipping.Resolver
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(resolver *shipping.Resolver) *ShippingHandler {
	return &ShippingHandler{resolver: resolver}
}

// GetRates returns shipping rates for the destination. Live lookup
// failures degrade to the static rate table rather than erroring.
func (h *ShippingHandler) GetRates(c *gin.Context) {
	var req shipping.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	rates, err := h.resolver.Resolve(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping rates retrieved successfully",
		"data":    rates,
	})
}
