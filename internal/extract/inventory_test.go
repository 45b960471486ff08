package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventoryLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []InventoryCandidate
	}{
		{
			name: "single well-formed line",
			text: "Verizon, Router X1, Hardware, $25.00",
			want: []InventoryCandidate{
				{Vendor: "Verizon", Item: "Router X1", Type: "Hardware", MonthlyCharge: "25.00", Status: "Active"},
			},
		},
		{
			name: "dollar sign optional",
			text: "Comcast, Circuit 12, Circuit, 149.99",
			want: []InventoryCandidate{
				{Vendor: "Comcast", Item: "Circuit 12", Type: "Circuit", MonthlyCharge: "149.99", Status: "Active"},
			},
		},
		{
			name: "thousands separator stripped",
			text: "Lumen, Wave 100G, Circuit, $1,250.00",
			want: []InventoryCandidate{
				{Vendor: "Lumen", Item: "Wave 100G", Type: "Circuit", MonthlyCharge: "1250.00", Status: "Active"},
			},
		},
		{
			name: "malformed lines dropped, order preserved",
			text: "junk header line\nVerizon, Phone 7, Phone, $12\nnot,enough,fields\nATT, SIM 4, Mobile, $30",
			want: []InventoryCandidate{
				{Vendor: "Verizon", Item: "Phone 7", Type: "Phone", MonthlyCharge: "12", Status: "Active"},
				{Vendor: "ATT", Item: "SIM 4", Type: "Mobile", MonthlyCharge: "30", Status: "Active"},
			},
		},
		{
			name: "blank lines skipped",
			text: "\n\n   \nVerizon, Router, Hardware, $5\n\n",
			want: []InventoryCandidate{
				{Vendor: "Verizon", Item: "Router", Type: "Hardware", MonthlyCharge: "5", Status: "Active"},
			},
		},
		{
			name: "no matches yields empty",
			text: "nothing matches here\nnot even close",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InventoryLines(tt.text))
		})
	}
}

func TestInventoryCandidateComplete(t *testing.T) {
	full := InventoryCandidate{Vendor: "Acme", Item: "Router", Type: "Hardware", MonthlyCharge: "25", Status: "Active"}
	assert.True(t, full.Complete())

	tests := []InventoryCandidate{
		{Item: "Router", Type: "Hardware", MonthlyCharge: "25"},
		{Vendor: "Acme", Type: "Hardware", MonthlyCharge: "25"},
		{Vendor: "Acme", Item: "Router", MonthlyCharge: "25"},
		{Vendor: "Acme", Item: "Router", Type: "Hardware"},
	}
	for _, c := range tests {
		assert.False(t, c.Complete())
	}
}
