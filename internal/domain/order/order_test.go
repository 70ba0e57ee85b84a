package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawOrder_DecodesFlexibleNumericScalars(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		ip      int
		invoice int
	}{
		{"numbers", `{"id":7,"ipStatus":1,"invoiceId":42}`, 1, 42},
		{"strings", `{"id":7,"ipStatus":"2","invoiceId":"55"}`, 2, 55},
		{"null and missing", `{"id":7,"ipStatus":null}`, 0, 0},
		{"malformed", `{"id":7,"ipStatus":"n/a","invoiceId":""}`, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o RawOrder
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &o))
			assert.Equal(t, int64(7), o.ID)
			assert.Equal(t, tt.ip, o.IPStatus.Int())
			assert.Equal(t, tt.invoice, o.InvoiceID.Int())
		})
	}
}

func TestComputeUnshipped(t *testing.T) {
	items := []LineItem{
		{ID: 1, Quantity: 5, QuantityShipped: 2},
		{ID: 2, Quantity: 3, QuantityShipped: 3},
		{ID: 3, Quantity: 1, QuantityShipped: 0},
	}

	out := ComputeUnshipped(items)

	assert.Equal(t, 3, out[0].NotShippingNumber)
	assert.Equal(t, 0, out[1].NotShippingNumber)
	assert.Equal(t, 1, out[2].NotShippingNumber)

	// Input is never mutated.
	for _, li := range items {
		assert.Zero(t, li.NotShippingNumber)
	}
}

func TestResolveStatusLabel(t *testing.T) {
	defs := []StatusDefinition{
		{StatusCode: "2", SystemLabel: "Shipped", CustomLabel: "On its way"},
		{StatusCode: "10", SystemLabel: "Completed", CustomLabel: ""},
	}

	translate := func(key string) string {
		if key == "Shipped" {
			return "Versendet"
		}
		return key
	}

	tests := []struct {
		name      string
		status    string
		translate func(string) string
		expected  string
	}{
		{"translated system label wins", "Shipped", translate, "Versendet"},
		{"identity translation falls back to custom label", "shipped", func(s string) string { return s }, "On its way"},
		{"no custom label falls back to system label", "Completed", translate, "Completed"},
		{"nil translator uses custom label", "Shipped", nil, "On its way"},
		{"unknown status passes through", "Mystery", translate, "Mystery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveStatusLabel(defs, tt.status, tt.translate))
		})
	}
}
