// internal/pkg/currency/idr_test.go
package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{1000, "Rp1.000"},
		{245000, "Rp245.000"},
		{265000, "Rp265.000"},
		{1250000, "Rp1.250.000"},
		{-20000, "-Rp20.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatIDR(tt.amount), "amount %d", tt.amount)
	}
}
