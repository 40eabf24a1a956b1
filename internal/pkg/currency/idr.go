// internal/pkg/currency/idr.go
package currency

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatIDR renders a rupiah amount with thousands separators, e.g.
// 245000 -> "Rp245.000".
func FormatIDR(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if negative {
		return fmt.Sprintf("-Rp%s", b.String())
	}
	return fmt.Sprintf("Rp%s", b.String())
}
