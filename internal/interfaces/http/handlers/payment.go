// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/payment"
)

// PaymentHandler handles payment channel listing and gateway webhooks
type PaymentHandler struct {
	gateway      *payment.Gateway
	orderService *order.Service
	logger       *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(gateway *payment.Gateway, orderService *order.Service, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		gateway:      gateway,
		orderService: orderService,
		logger:       logger,
	}
}

// GetChannels lists available payment channels
func (h *PaymentHandler) GetChannels(c *gin.Context) {
	channels, err := h.gateway.GetChannels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment channels retrieved successfully",
		"data":    channels,
	})
}

// Webhook receives gateway payment status callbacks. The signature is an
// HMAC of the raw body, so the body is read before any JSON decoding.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	signature := c.GetHeader("X-Callback-Signature")
	if !h.gateway.VerifyCallbackSignature(rawBody, signature) {
		h.logger.WithField("client_ip", c.ClientIP()).Warn("rejected webhook with invalid signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var callback payment.CallbackPayload
	if err := json.Unmarshal(rawBody, &callback); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid callback payload"})
		return
	}

	ord, err := h.orderService.ApplyGatewayStatus(c.Request.Context(), callback.MerchantRef, callback.Status, callback.Reference)
	if err != nil {
		h.logger.WithError(err).WithField("merchant_ref", callback.MerchantRef).
			Error("failed to apply gateway status")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"order_number": ord.OrderNumber, "status": ord.Status},
	})
}
