// internal/domain/payment/lineitems.go
package payment

// BuildLineItems produces the item list sent to the gateway. The gateway
// validates that line prices sum exactly to the transaction amount, so
// whenever the per-item sum diverges from the order total (shipping cost,
// voucher discount, rounding) the lines collapse into a single summary
// item whose price equals the total. The function is idempotent: applying
// it to its own output returns the same single line.
func BuildLineItems(lines []LineItem, totalAmount int64) []LineItem {
	var sum int64
	for _, line := range lines {
		sum += line.Price * int64(line.Quantity)
	}

	if sum != totalAmount {
		return []LineItem{{
			Name:     "Order total",
			Price:    totalAmount,
			Quantity: 1,
		}}
	}

	return lines
}
