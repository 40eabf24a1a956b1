// internal/domain/order/entity_test.go
package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to paid", StatusPending, StatusPaid, true},
		{"pending to success", StatusPending, StatusSuccess, true},
		{"pending to failed", StatusPending, StatusFailed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"paid to success", StatusPaid, StatusSuccess, true},
		{"paid to failed", StatusPaid, StatusFailed, false},
		{"paid to cancelled", StatusPaid, StatusCancelled, false},
		{"success is terminal", StatusSuccess, StatusCancelled, false},
		{"failed is terminal", StatusFailed, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"submitted to pending", StatusSubmitted, StatusPending, true},
		{"draft to submitted", StatusDraft, StatusSubmitted, true},
		{"pending cannot rewind", StatusPending, StatusSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusSuccess.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusPaid.IsTerminal())
}

func TestMapGatewayStatus(t *testing.T) {
	assert.Equal(t, StatusPaid, MapGatewayStatus("PAID"))
	assert.Equal(t, StatusPaid, MapGatewayStatus("paid"))
	assert.Equal(t, StatusPending, MapGatewayStatus("UNPAID"))
	assert.Equal(t, StatusFailed, MapGatewayStatus("EXPIRED"))
	assert.Equal(t, StatusFailed, MapGatewayStatus("FAILED"))
	assert.Equal(t, StatusCancelled, MapGatewayStatus("REFUND"))
	assert.Equal(t, Status(""), MapGatewayStatus("SOMETHING_ELSE"))
}

func TestGenerateOrderNumber(t *testing.T) {
	num := GenerateOrderNumber(42)
	assert.Regexp(t, `^ORD-\d{8}-000042$`, num)
}
