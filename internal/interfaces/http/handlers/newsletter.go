// internal/interfaces/http/handlers/newsletter.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/newsletter"
)

// NewsletterHandler handles newsletter signup
type NewsletterHandler struct {
	newsletterService *newsletter.Service
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(newsletterService *newsletter.Service) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// Subscribe adds an email to the newsletter list. Duplicate signups
// succeed quietly.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sub, err := h.newsletterService.Subscribe(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subscribed to newsletter",
		"data":    sub,
	})
}
