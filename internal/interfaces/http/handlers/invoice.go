// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/pkg/pdf"
)

// InvoiceHandler serves order invoices as PDF downloads
type InvoiceHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orderService *order.Service, pdfService *pdf.Service) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: orderService,
		pdfService:   pdfService,
	}
}

// Download renders the order's invoice PDF
func (h *InvoiceHandler) Download(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	ord, err := h.orderService.Get(userID, c.Param("number"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	data, err := h.pdfService.GenerateInvoice(ord)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", ord.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
