// internal/domain/payment/gateway.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
)

// Channel is a payment method offered by the gateway
type Channel struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Group     string `json:"group"`
	IconURL   string `json:"icon_url,omitempty"`
	FeeFlat   int64  `json:"fee_flat"`
	Active    bool   `json:"active"`
	Fallback  bool   `json:"fallback,omitempty"`
}

// fallbackChannels is served when the gateway cannot be reached, so the
// checkout page always has something to render.
var fallbackChannels = []Channel{
	{Code: "BRIVA", Name: "BRI Virtual Account", Group: "Virtual Account", Active: true, Fallback: true},
	{Code: "QRIS", Name: "QRIS", Group: "QRIS", Active: true, Fallback: true},
}

// LineItem is an order line sent to the gateway
type LineItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// TransactionRequest describes the payment transaction to create
type TransactionRequest struct {
	MerchantRef   string     `json:"merchant_ref"`
	Method        string     `json:"method"`
	Amount        int64      `json:"amount"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone"`
	OrderItems    []LineItem `json:"order_items"`
}

// Transaction is the gateway's answer for a created transaction
type Transaction struct {
	Reference   string `json:"reference"`
	MerchantRef string `json:"merchant_ref"`
	Method      string `json:"payment_method"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	CheckoutURL string `json:"checkout_url"`
	PayCode     string `json:"pay_code"`
	QRURL       string `json:"qr_url"`
	ExpiredTime int64  `json:"expired_time"`
}

// ExpiresAt converts the gateway's unix expiry to a time
func (t *Transaction) ExpiresAt() time.Time {
	return time.Unix(t.ExpiredTime, 0).UTC()
}

// CallbackPayload is the body of a gateway status webhook
type CallbackPayload struct {
	Reference   string `json:"reference"`
	MerchantRef string `json:"merchant_ref"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total_amount"`
}

// Gateway talks to the external payment provider
type Gateway struct {
	httpClient *http.Client
	config     *config.PaymentConfig
	logger     *logrus.Logger
}

// NewGateway creates a payment gateway client
func NewGateway(cfg *config.PaymentConfig, logger *logrus.Logger) *Gateway {
	return &Gateway{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		config:     cfg,
		logger:     logger,
	}
}

// Signature computes the transaction signature: HMAC-SHA256 of
// merchantCode + merchantRef + amount keyed with the private key.
func (g *Gateway) Signature(merchantRef string, amount int64) string {
	mac := hmac.New(sha256.New, []byte(g.config.PrivateKey))
	fmt.Fprintf(mac, "%s%s%d", g.config.MerchantCode, merchantRef, amount)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallbackSignature checks a webhook signature: HMAC-SHA256 of the
// raw request body keyed with the private key, compared in constant time.
func (g *Gateway) VerifyCallbackSignature(rawBody []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.config.PrivateKey))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type channelsResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    []Channel `json:"data"`
}

// GetChannels lists active payment channels, serving the static fallback
// list when the gateway is unreachable.
func (g *Gateway) GetChannels(ctx context.Context) ([]Channel, error) {
	url := g.config.BaseURL + "/merchant/payment-channel"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.WithError(err).Warn("payment channel lookup failed, serving fallback channels")
		return fallbackChannels, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.WithField("status", resp.StatusCode).
			Warn("payment channel lookup failed, serving fallback channels")
		return fallbackChannels, nil
	}

	var apiResp channelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil || !apiResp.Success {
		g.logger.Warn("payment channel response unusable, serving fallback channels")
		return fallbackChannels, nil
	}

	active := make([]Channel, 0, len(apiResp.Data))
	for _, ch := range apiResp.Data {
		if ch.Active {
			active = append(active, ch)
		}
	}
	if len(active) == 0 {
		return fallbackChannels, nil
	}
	return active, nil
}

type createTransactionBody struct {
	Method        string     `json:"method"`
	MerchantRef   string     `json:"merchant_ref"`
	Amount        int64      `json:"amount"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	OrderItems    []LineItem `json:"order_items"`
	ReturnURL     string     `json:"return_url,omitempty"`
	ExpiredTime   int64      `json:"expired_time"`
	Signature     string     `json:"signature"`
}

type transactionResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

// CreateTransaction registers a payment transaction with the gateway
func (g *Gateway) CreateTransaction(ctx context.Context, req *TransactionRequest) (*Transaction, error) {
	body := createTransactionBody{
		Method:        req.Method,
		MerchantRef:   req.MerchantRef,
		Amount:        req.Amount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		OrderItems:    req.OrderItems,
		ReturnURL:     g.config.ReturnURL,
		ExpiredTime:   time.Now().Add(g.config.Expiry).Unix(),
		Signature:     g.Signature(req.MerchantRef, req.Amount),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := g.config.BaseURL + "/transaction/create"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp transactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if !apiResp.Success {
		return nil, fmt.Errorf("payment gateway rejected transaction: %s", apiResp.Message)
	}

	return &apiResp.Data, nil
}
