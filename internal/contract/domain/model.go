package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Contract keeps dates and cost as text exactly as extracted or typed.
// Recognition output is noisy, so the record stores what the user
// confirmed; date parsing happens only where arithmetic needs it.
type Contract struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID `gorm:"not null;index" json:"company_id"`
	Vendor      string       `gorm:"not null" json:"vendor"`
	Service     string       `gorm:"not null" json:"service"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	MonthlyCost string       `json:"monthly_cost"`
	FileURL     string       `json:"file_url,omitempty"`
	FileName    string       `json:"file_name,omitempty"`
	OCRRaw      string       `gorm:"column:ocr_raw" json:"ocr_raw,omitempty"`
	OCRStatus   string       `gorm:"column:ocr_status" json:"ocr_status,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

const (
	OCRStatusSuccess = "success"
	OCRStatusManual  = "manual"
)

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"1/2/2006",
	"01-02-2006",
}

// ParseDate parses the tolerated date-as-text formats. The second return
// is false when the text does not parse; callers treat such contracts as
// having no usable date rather than failing.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
