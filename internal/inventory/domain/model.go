package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Item is one tracked telecom asset: a circuit, a phone line, a mobile
// device or a piece of hardware. MonthlyCharge stays decimal-as-text the
// way it arrives from uploads; arithmetic happens at read time.
type Item struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID     snowflake.ID `gorm:"not null;index" json:"company_id"`
	Vendor        string       `gorm:"not null" json:"vendor"`
	Item          string       `gorm:"column:item;not null" json:"item"`
	Type          string       `gorm:"not null" json:"type"`
	MonthlyCharge string       `gorm:"not null" json:"monthly_charge"`
	Status        string       `gorm:"not null" json:"status"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Item) TableName() string { return "inventory_items" }

const (
	TypeCircuit  = "Circuit"
	TypePhone    = "Phone"
	TypeMobile   = "Mobile"
	TypeHardware = "Hardware"
	TypeOther    = "Other"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusPending  = "Pending"
)

func ValidType(t string) bool {
	switch t {
	case TypeCircuit, TypePhone, TypeMobile, TypeHardware, TypeOther:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}
