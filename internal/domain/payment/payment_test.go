// internal/domain/payment/payment_test.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestBuildLineItemsMatchingSumStaysItemized(t *testing.T) {
	lines := []LineItem{
		{Name: "Product P", Price: 100000, Quantity: 2},
		{Name: "Product Q", Price: 50000, Quantity: 1},
	}

	items := BuildLineItems(lines, 250000)
	require.Len(t, items, 2)
	assert.Equal(t, lines, items)
}

// 2x100,000 + 1x50,000 with 15,000 shipping and a 20,000 voucher gives a
// 245,000 total that no longer matches the 250,000 item sum, so the payload
// collapses to a single summary line.
func TestBuildLineItemsCollapsesOnMismatch(t *testing.T) {
	lines := []LineItem{
		{Name: "Product P", Price: 100000, Quantity: 2},
		{Name: "Product Q", Price: 50000, Quantity: 1},
	}

	items := BuildLineItems(lines, 245000)
	require.Len(t, items, 1)
	assert.Equal(t, "Order total", items[0].Name)
	assert.Equal(t, int64(245000), items[0].Price)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestBuildLineItemsIdempotent(t *testing.T) {
	lines := []LineItem{
		{Name: "Product P", Price: 100000, Quantity: 2},
		{Name: "Product Q", Price: 50000, Quantity: 1},
	}

	once := BuildLineItems(lines, 265000)
	twice := BuildLineItems(once, 265000)
	assert.Equal(t, once, twice)
}

func newTestGateway(baseURL string) *Gateway {
	return NewGateway(&config.PaymentConfig{
		BaseURL:      baseURL,
		APIKey:       "test-api-key",
		PrivateKey:   "test-private-key",
		MerchantCode: "T0001",
	}, testLogger())
}

func TestSignature(t *testing.T) {
	g := newTestGateway("http://unused.invalid")

	mac := hmac.New(sha256.New, []byte("test-private-key"))
	mac.Write([]byte("T0001ORD-20260830-000042245000"))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, g.Signature("ORD-20260830-000042", 245000))
}

func TestVerifyCallbackSignature(t *testing.T) {
	g := newTestGateway("http://unused.invalid")

	body := []byte(`{"reference":"T123","merchant_ref":"ORD-1","status":"PAID","total_amount":245000}`)
	mac := hmac.New(sha256.New, []byte("test-private-key"))
	mac.Write(body)
	good := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, g.VerifyCallbackSignature(body, good))
	assert.False(t, g.VerifyCallbackSignature(body, "deadbeef"))
	assert.False(t, g.VerifyCallbackSignature([]byte(`{"tampered":true}`), good))
}

func TestGetChannelsFiltersInactive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"code": "BRIVA", "name": "BRI Virtual Account", "group": "Virtual Account", "active": true},
				{"code": "OVO", "name": "OVO", "group": "E-Wallet", "active": false},
				{"code": "QRIS", "name": "QRIS", "group": "QRIS", "active": true}
			]
		}`))
	}))
	defer server.Close()

	g := newTestGateway(server.URL)
	channels, err := g.GetChannels(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "BRIVA", channels[0].Code)
	assert.Equal(t, "QRIS", channels[1].Code)
	assert.False(t, channels[0].Fallback)
}

func TestGetChannelsFallbackOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := newTestGateway(server.URL)
	channels, err := g.GetChannels(context.Background())
	require.NoError(t, err, "channel listing must degrade, not fail")
	require.NotEmpty(t, channels)

	for _, ch := range channels {
		assert.True(t, ch.Fallback)
		assert.True(t, ch.Active)
	}
}

func TestGetChannelsFallbackOnUnreachable(t *testing.T) {
	g := newTestGateway("http://127.0.0.1:1")

	channels, err := g.GetChannels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallbackChannels, channels)
}

func TestCreateTransaction(t *testing.T) {
	var received createTransactionBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/create", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"reference": "T123456",
				"merchant_ref": "ORD-20260830-000042",
				"payment_method": "QRIS",
				"status": "UNPAID",
				"amount": 245000,
				"checkout_url": "https://pay.example/T123456",
				"qr_url": "https://pay.example/qr/T123456.png",
				"expired_time": 1756627200
			}
		}`))
	}))
	defer server.Close()

	g := newTestGateway(server.URL)
	tx, err := g.CreateTransaction(context.Background(), &TransactionRequest{
		MerchantRef:   "ORD-20260830-000042",
		Method:        "QRIS",
		Amount:        245000,
		CustomerName:  "Budi Santoso",
		CustomerEmail: "budi@example.com",
		OrderItems:    []LineItem{{Name: "Order total", Price: 245000, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "T123456", tx.Reference)
	assert.Equal(t, "https://pay.example/T123456", tx.CheckoutURL)
	assert.Equal(t, "UNPAID", tx.Status)

	assert.Equal(t, g.Signature("ORD-20260830-000042", 245000), received.Signature)
	assert.Equal(t, int64(245000), received.Amount)
}

func TestCreateTransactionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "invalid signature"}`))
	}))
	defer server.Close()

	g := newTestGateway(server.URL)
	_, err := g.CreateTransaction(context.Background(), &TransactionRequest{
		MerchantRef: "ORD-1",
		Amount:      1000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid signature")
}
