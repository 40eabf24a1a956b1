// internal/domain/cart/cart_test.go
package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/domain/product"
)

func TestIsTemporaryItemID(t *testing.T) {
	tests := []struct {
		name   string
		itemID string
		want   bool
	}{
		{"temp id", "tmp-1756541234567", true},
		{"bare prefix", "tmp-", true},
		{"numeric row id", "42", false},
		{"uuid guest id", "3b7f9a44-9f0e-4a4e-9a53-0c6a1a2b3c4d", false},
		{"prefix mid-string", "item-tmp-1", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTemporaryItemID(tt.itemID))
		})
	}
}

// Removing a temporary item must never reach the backing store. The service
// is built with nil dependencies here so any store access would panic.
func TestRemoveItemTemporaryIDIsNoOp(t *testing.T) {
	svc := &Service{}
	userID := uint(7)

	removed, err := svc.RemoveItem(context.Background(), &userID, "", "tmp-1756541234567")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.RemoveItem(context.Background(), nil, "sess-1", "tmp-abc")
	require.NoError(t, err)
	assert.False(t, removed)
}

// Adding the same (product, size) pair accumulates quantity on the
// existing line instead of appending a duplicate.
func TestUpsertSessionItemAccumulates(t *testing.T) {
	prod := &product.Product{ID: 1, Price: 100000, TrackQuantity: true, Quantity: 10}

	items, err := upsertSessionItem(nil, prod, 2, "M")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	items, err = upsertSessionItem(items, prod, 3, "M")
	require.NoError(t, err)
	require.Len(t, items, 1, "same product and size must not duplicate a line")
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, int64(100000), items[0].Price)

	items, err = upsertSessionItem(items, prod, 1, "L")
	require.NoError(t, err)
	require.Len(t, items, 2, "a different size is its own line")
	assert.Equal(t, "L", items[1].Size)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestUpsertSessionItemStockLimit(t *testing.T) {
	prod := &product.Product{ID: 1, Price: 100000, TrackQuantity: true, Quantity: 3}

	items, err := upsertSessionItem(nil, prod, 2, "M")
	require.NoError(t, err)

	_, err = upsertSessionItem(items, prod, 2, "M")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestCalculateTotals(t *testing.T) {
	items := []CartItemResponse{
		{ID: "1", ProductID: 1, Quantity: 2, Price: 100000},
		{ID: "2", ProductID: 2, Quantity: 1, Price: 50000},
	}

	totals := CalculateTotals(items)

	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 3, totals.TotalQuantity)
	assert.Equal(t, int64(250000), totals.SubTotal)
	assert.Equal(t, int64(250000), totals.TotalAmount)
}

func TestCalculateTotalsEmpty(t *testing.T) {
	totals := CalculateTotals(nil)

	assert.Equal(t, 0, totals.ItemCount)
	assert.Equal(t, 0, totals.TotalQuantity)
	assert.Equal(t, int64(0), totals.SubTotal)
	assert.Equal(t, int64(0), totals.TotalAmount)
}

func TestParseItemID(t *testing.T) {
	id, err := parseItemID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = parseItemID("not-a-number")
	assert.Error(t, err)

	_, err = parseItemID("")
	assert.Error(t, err)
}

func TestGuestCartKey(t *testing.T) {
	assert.Equal(t, "cart:session:abc-123", guestCartKey("abc-123"))
}

func TestSessionCartExpiry(t *testing.T) {
	now := time.Now().UTC()
	cart := SessionCart{
		SessionID: "sess-1",
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	assert.True(t, cart.ExpiresAt.After(cart.CreatedAt))
	assert.Equal(t, 24*time.Hour, cart.ExpiresAt.Sub(cart.CreatedAt))
}
