package extract

import (
	"regexp"
	"strings"
)

// DefaultInventoryStatus is assigned to extracted inventory candidates.
const DefaultInventoryStatus = "Active"

// InventoryCandidate is a provisional inventory record pending human review.
type InventoryCandidate struct {
	Vendor        string `json:"vendor"`
	Item          string `json:"item"`
	Type          string `json:"type"`
	MonthlyCharge string `json:"monthly_charge"`
	Status        string `json:"status"`
}

// One line per item: "Vendor, Item, Type, Monthly Charge".
var reInventoryLine = regexp.MustCompile(`^(.*?),\s*(.*?),\s*(.*?),\s*\$?([\d,.]+)`)

// InventoryLines extracts one candidate per well-formed line. Lines that do
// not match the 4-field comma shape are silently dropped; output order
// follows input order.
func InventoryLines(text string) []InventoryCandidate {
	var items []InventoryCandidate
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := reInventoryLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, InventoryCandidate{
			Vendor:        strings.TrimSpace(m[1]),
			Item:          strings.TrimSpace(m[2]),
			Type:          strings.TrimSpace(m[3]),
			MonthlyCharge: stripThousands(m[4]),
			Status:        DefaultInventoryStatus,
		})
	}
	return items
}

// Complete reports whether the candidate carries every field the inventory
// schema requires. Incomplete candidates never reach the preview.
func (c InventoryCandidate) Complete() bool {
	return c.Vendor != "" && c.Item != "" && c.Type != "" && c.MonthlyCharge != ""
}
