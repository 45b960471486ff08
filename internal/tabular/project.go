package tabular

import (
	"strings"

	"github.com/ntemspark/telm/internal/extract"
)

// Column headers recognized by the inventory projection.
const (
	ColVendor        = "Vendor"
	ColItem          = "Item"
	ColType          = "Type"
	ColMonthlyCharge = "Monthly Charge"
	ColStatus        = "Status"
)

// ProjectInventory maps parsed rows to inventory candidates. Rows missing
// vendor, item, type or monthly charge are excluded here, before any
// preview is shown. Status defaults to Active when the column is absent
// or empty.
func ProjectInventory(rows []Row) []extract.InventoryCandidate {
	var items []extract.InventoryCandidate
	for _, row := range rows {
		c := extract.InventoryCandidate{
			Vendor:        field(row, ColVendor),
			Item:          field(row, ColItem),
			Type:          field(row, ColType),
			MonthlyCharge: normalizeMoney(field(row, ColMonthlyCharge)),
			Status:        field(row, ColStatus),
		}
		if c.Status == "" {
			c.Status = extract.DefaultInventoryStatus
		}
		if !c.Complete() {
			continue
		}
		items = append(items, c)
	}
	return items
}

// field matches headers case-insensitively so "vendor" and "VENDOR"
// columns import the same as "Vendor".
func field(row Row, name string) string {
	if v, ok := row[name]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func normalizeMoney(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	return strings.ReplaceAll(s, ",", "")
}
