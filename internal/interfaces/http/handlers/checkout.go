// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/checkout"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
)

// CheckoutHandler handles pra-checkout and submission endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateSnapshot freezes the user's cart into a pra-checkout snapshot
func (h *CheckoutHandler) CreateSnapshot(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	snapshot, err := h.checkoutService.CreateSnapshot(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout snapshot created",
		"data":    snapshot,
	})
}

// GetSnapshot returns a pra-checkout snapshot by id
func (h *CheckoutHandler) GetSnapshot(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	snapshotID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid snapshot id"})
		return
	}

	snapshot, err := h.checkoutService.GetSnapshot(userID, uint(snapshotID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout snapshot retrieved",
		"data":    snapshot,
	})
}

// ApplyVoucher validates and remembers a voucher for the next snapshot
func (h *CheckoutHandler) ApplyVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Code     string `json:"code" binding:"required"`
		SubTotal int64  `json:"sub_total" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	voucher, discount, err := h.checkoutService.ApplyVoucher(c.Request.Context(), userID, req.Code, req.SubTotal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Voucher applied",
		"data": gin.H{
			"voucher":         voucher,
			"discount_amount": discount,
		},
	})
}

// RemoveVoucher clears the applied voucher
func (h *CheckoutHandler) RemoveVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.checkoutService.RemoveVoucher(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Voucher removed",
	})
}

// Submit runs the checkout flow and returns the order with its payment
// instructions.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req checkout.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.checkoutService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout submitted successfully",
		"data":    response,
	})
}
