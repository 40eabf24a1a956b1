// internal/domain/checkout/checkout_test.go
package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/domain/user"
)

func TestVoucherValidate(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		voucher  Voucher
		subTotal int64
		wantErr  bool
	}{
		{
			name:     "valid active voucher",
			voucher:  Voucher{Type: VoucherTypeFixed, Value: 20000, IsActive: true},
			subTotal: 250000,
		},
		{
			name:     "inactive",
			voucher:  Voucher{Type: VoucherTypeFixed, Value: 20000, IsActive: false},
			subTotal: 250000,
			wantErr:  true,
		},
		{
			name:     "expired",
			voucher:  Voucher{Type: VoucherTypeFixed, Value: 20000, IsActive: true, ExpiresAt: &past},
			subTotal: 250000,
			wantErr:  true,
		},
		{
			name:     "not yet expired",
			voucher:  Voucher{Type: VoucherTypeFixed, Value: 20000, IsActive: true, ExpiresAt: &future},
			subTotal: 250000,
		},
		{
			name:     "below minimum order",
			voucher:  Voucher{Type: VoucherTypeFixed, Value: 20000, IsActive: true, MinOrderValue: 300000},
			subTotal: 250000,
			wantErr:  true,
		},
		{
			name:     "usage limit reached",
			voucher:  Voucher{Type: VoucherTypeFixed, Value: 20000, IsActive: true, UsageLimit: 5, UsedCount: 5},
			subTotal: 250000,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.voucher.Validate(tt.subTotal, now)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVoucherDiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		voucher  Voucher
		subTotal int64
		want     int64
	}{
		{"fixed", Voucher{Type: VoucherTypeFixed, Value: 20000}, 250000, 20000},
		{"percentage", Voucher{Type: VoucherTypePercentage, Value: 10}, 250000, 25000},
		{"percentage capped", Voucher{Type: VoucherTypePercentage, Value: 10, MaxDiscount: 15000}, 250000, 15000},
		{"fixed exceeds subtotal", Voucher{Type: VoucherTypeFixed, Value: 300000}, 250000, 250000},
		{"unknown type", Voucher{Type: "bogus", Value: 20000}, 250000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.voucher.DiscountFor(tt.subTotal))
		})
	}
}

func TestNormalizeVoucherCode(t *testing.T) {
	assert.Equal(t, "HEMAT20", NormalizeVoucherCode("  hemat20 "))
	assert.Equal(t, "", NormalizeVoucherCode("   "))
}

// Cart with 2x product P at 100,000 plus 1x product Q at 50,000 and 15,000
// shipping: subtotal 250,000, total 265,000. A 20,000 voucher brings the
// total to 245,000.
func TestComputeTotalScenarios(t *testing.T) {
	snapshot := &PraCheckout{
		Items: []SnapshotItem{
			{ProductID: 1, ProductName: "Product P", Price: 100000, Quantity: 2},
			{ProductID: 2, ProductName: "Product Q", Price: 50000, Quantity: 1},
		},
	}

	subTotal, discount, total := ComputeTotal(snapshot, 15000)
	assert.Equal(t, int64(250000), subTotal)
	assert.Equal(t, int64(0), discount)
	assert.Equal(t, int64(265000), total)

	snapshot.DiscountAmount = 20000
	subTotal, discount, total = ComputeTotal(snapshot, 15000)
	assert.Equal(t, int64(250000), subTotal)
	assert.Equal(t, int64(20000), discount)
	assert.Equal(t, int64(245000), total)
}

func TestComputeTotalDiscountCappedAtSubtotal(t *testing.T) {
	snapshot := &PraCheckout{
		Items:          []SnapshotItem{{Price: 10000, Quantity: 1}},
		DiscountAmount: 50000,
	}

	subTotal, discount, total := ComputeTotal(snapshot, 0)
	assert.Equal(t, int64(10000), subTotal)
	assert.Equal(t, int64(10000), discount)
	assert.Equal(t, int64(0), total, "a fully discounted order totals zero and must be rejected upstream")
}

func shippableUser() *user.User {
	return &user.User{
		RecipientName:  "Budi Santoso",
		RecipientPhone: "081234567890",
		Street:         "Jl. Braga No. 1",
		Province:       "Jawa Barat",
		Regency:        "Kota Bandung",
		District:       "Sumur Bandung",
		Village:        "Braga",
		PostalCode:     "40111",
	}
}

func TestValidateSubmission(t *testing.T) {
	now := time.Now().UTC()
	snapshot := func() *PraCheckout {
		return &PraCheckout{
			Items: []SnapshotItem{
				{ProductID: 1, ProductName: "Product P", Price: 100000, Quantity: 2},
				{ProductID: 2, ProductName: "Product Q", Price: 50000, Quantity: 1},
			},
		}
	}

	t.Run("valid submission", func(t *testing.T) {
		subTotal, discount, total, err := ValidateSubmission(shippableUser(), snapshot(), 15000)
		require.NoError(t, err)
		assert.Equal(t, int64(250000), subTotal)
		assert.Equal(t, int64(0), discount)
		assert.Equal(t, int64(265000), total)
	})

	t.Run("incomplete address", func(t *testing.T) {
		u := shippableUser()
		u.Street = ""
		_, _, _, err := ValidateSubmission(u, snapshot(), 15000)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shipping address")
	})

	t.Run("consumed snapshot", func(t *testing.T) {
		s := snapshot()
		s.ConsumedAt = &now
		_, _, _, err := ValidateSubmission(shippableUser(), s, 15000)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already used")
	})

	t.Run("empty cart snapshot", func(t *testing.T) {
		_, _, _, err := ValidateSubmission(shippableUser(), &PraCheckout{}, 15000)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("negative shipping cost", func(t *testing.T) {
		_, _, _, err := ValidateSubmission(shippableUser(), snapshot(), -1)
		assert.Error(t, err)
	})

	t.Run("fully discounted total rejected", func(t *testing.T) {
		s := snapshot()
		s.DiscountAmount = 300000
		_, _, _, err := ValidateSubmission(shippableUser(), s, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})
}

func TestSnapshotConsumption(t *testing.T) {
	snapshot := PraCheckout{}
	assert.False(t, snapshot.IsConsumed())

	now := time.Now().UTC()
	snapshot.ConsumedAt = &now
	assert.True(t, snapshot.IsConsumed())
}

func TestAppliedVoucherKey(t *testing.T) {
	require.Equal(t, "checkout:voucher:42", appliedVoucherKey(42))
}
