// internal/domain/region/client_test.go
package region

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
)

func TestProvinces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/provinces.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"code": "32", "name": "Jawa Barat"},
			{"code": "31", "name": "DKI Jakarta"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(&config.RegionsConfig{BaseURL: server.URL})
	provinces, err := client.Provinces(context.Background())
	require.NoError(t, err)
	require.Len(t, provinces, 2)
	assert.Equal(t, "Jawa Barat", provinces[0].Name)
	assert.Equal(t, "32", provinces[0].Code)
}

func TestVillagesIncludePostalCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/villages/32.73.01.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"code": "32.73.01.1001", "name": "Cihapit", "postal_code": "40114"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(&config.RegionsConfig{BaseURL: server.URL})
	villages, err := client.Villages(context.Background(), "32.73.01")
	require.NoError(t, err)
	require.Len(t, villages, 1)
	assert.Equal(t, "40114", villages[0].PostalCode)
}

func TestLookupsRequireParentCode(t *testing.T) {
	client := NewClient(&config.RegionsConfig{BaseURL: "http://unused.invalid"})

	_, err := client.Regencies(context.Background(), "")
	assert.Error(t, err)

	_, err = client.Districts(context.Background(), "")
	assert.Error(t, err)

	_, err = client.Villages(context.Background(), "")
	assert.Error(t, err)
}

func TestLookupHonorsContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(&config.RegionsConfig{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.Provinces(ctx)
		done <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("lookup did not return after cancellation")
	}
}

func TestLookupErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(&config.RegionsConfig{BaseURL: server.URL})
	_, err := client.Provinces(context.Background())
	assert.Error(t, err)
}
