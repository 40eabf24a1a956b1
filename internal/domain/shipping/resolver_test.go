// internal/domain/shipping/resolver_test.go
package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
)

func TestNormalizeCarrierKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JNE Express", "jne"},
		{"jne", "jne"},
		{"SiCepat Express", "sicepat"},
		{"  AnterAja  ", "anteraja"},
		{"J&T express", "j&t"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCarrierKey(tt.in), "input %q", tt.in)
	}
}

type stubStore struct {
	rates []StaticRate
	err   error
	calls [][]string
}

func (s *stubStore) StaticRates(carriers []string) ([]StaticRate, error) {
	s.calls = append(s.calls, carriers)
	return s.rates, s.err
}

func newTestResolver(url string, store FallbackStore) *Resolver {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewResolver(&config.ShippingConfig{RatesURL: url, APIKey: "test-key"}, store, logger)
}

func TestResolvePicksCheapestMatchPerCarrier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"pricing": [
				{"company": "JNE", "courier_service_name": "REG", "price": 18000},
				{"company": "JNE", "courier_service_name": "YES", "price": 32000},
				{"company": "SiCepat", "courier_service_name": "BEST", "price": 20000}
			]
		}`))
	}))
	defer server.Close()

	store := &stubStore{}
	resolver := newTestResolver(server.URL, store)

	rates, err := resolver.Resolve(context.Background(), &RateRequest{
		PostalCode:  "40115",
		WeightGrams: 400,
		Carriers:    []string{"JNE Express", "SiCepat Express"},
	})
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "jne", rates[0].Carrier)
	assert.Equal(t, int64(18000), rates[0].Price)
	assert.False(t, rates[0].Fallback)

	assert.Equal(t, "sicepat", rates[1].Carrier)
	assert.Equal(t, int64(20000), rates[1].Price)

	assert.Empty(t, store.calls, "fallback store should not be consulted")
}

func TestResolveFallsBackWhenAPIDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := &stubStore{rates: []StaticRate{
		{Carrier: "jne", Label: "JNE", Price: 15000},
	}}
	resolver := newTestResolver(server.URL, store)

	rates, err := resolver.Resolve(context.Background(), &RateRequest{
		Carriers: []string{"JNE Express"},
	})
	require.NoError(t, err, "live lookup failure must not surface as an error")
	require.Len(t, rates, 1)

	assert.Equal(t, "jne", rates[0].Carrier)
	assert.Equal(t, int64(15000), rates[0].Price)
	assert.True(t, rates[0].Fallback)

	require.Len(t, store.calls, 1)
	assert.Equal(t, []string{"JNE Express"}, store.calls[0])
}

func TestResolveFallsBackForUnmatchedCarrierOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"pricing": [
				{"company": "JNE", "courier_service_name": "REG", "price": 18000}
			]
		}`))
	}))
	defer server.Close()

	store := &stubStore{rates: []StaticRate{
		{Carrier: "sicepat", Label: "SiCepat", Price: 17000},
	}}
	resolver := newTestResolver(server.URL, store)

	rates, err := resolver.Resolve(context.Background(), &RateRequest{
		Carriers: []string{"JNE", "SiCepat"},
	})
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.False(t, rates[0].Fallback)
	assert.True(t, rates[1].Fallback)
	assert.Equal(t, int64(17000), rates[1].Price)
}

func TestResolveSendsItemDetail(t *testing.T) {
	var received apiRateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "pricing": [
			{"company": "JNE", "courier_service_name": "REG", "price": 18000}
		]}`))
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL, &stubStore{})

	_, err := resolver.Resolve(context.Background(), &RateRequest{
		PostalCode: "40115",
		Carriers:   []string{"JNE"},
		Items: []RateItem{
			{Name: "Classic Oversized Tee", Quantity: 2, Value: 100000, Weight: 250},
			{Name: "Everyday Tote Bag", Quantity: 1, Value: 50000, Weight: 300},
		},
	})
	require.NoError(t, err)

	require.Len(t, received.Items, 2)
	assert.Equal(t, "Classic Oversized Tee", received.Items[0].Name)
	assert.Equal(t, 2, received.Items[0].Quantity)
	assert.Equal(t, int64(100000), received.Items[0].Value)
	assert.Equal(t, 250, received.Items[0].Weight)
	assert.Equal(t, "Everyday Tote Bag", received.Items[1].Name)
}

func TestBuildItemsAggregateFallback(t *testing.T) {
	items := buildItems(&RateRequest{WeightGrams: 800})
	require.Len(t, items, 1)
	assert.Equal(t, apiItem{Weight: 800}, items[0])

	// Missing weight falls back to the default parcel weight
	items = buildItems(&RateRequest{Items: []RateItem{{Name: "Tee", Quantity: 1, Value: 100000}}})
	require.Len(t, items, 1)
	assert.Equal(t, 200, items[0].Weight)
}

func TestResolveRequiresCarriers(t *testing.T) {
	resolver := newTestResolver("http://unused.invalid", &stubStore{})

	_, err := resolver.Resolve(context.Background(), &RateRequest{})
	assert.Error(t, err)
}

func TestCheapestMatchCaseInsensitiveSubstring(t *testing.T) {
	live := &apiRateResponse{
		Pricing: []struct {
			Company            string `json:"company"`
			CourierServiceName string `json:"courier_service_name"`
			Price              int64  `json:"price"`
		}{
			{Company: "JNE Cargo", CourierServiceName: "JTR", Price: 25000},
		},
	}

	rate, ok := cheapestMatch(live, "jne")
	require.True(t, ok)
	assert.Equal(t, int64(25000), rate.Price)

	_, ok = cheapestMatch(live, "sicepat")
	assert.False(t, ok)

	_, ok = cheapestMatch(nil, "jne")
	assert.False(t, ok)
}
