package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEvent is one recorded domain event, scoped to a company.
type AuditEvent struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID *snowflake.ID `gorm:"column:company_id;index:ix_audit_logs_company_created,priority:1" json:"company_id,omitempty"`

	UserID    *string `gorm:"type:text" json:"user_id,omitempty"`
	UserEmail *string `gorm:"type:text" json:"user_email,omitempty"`

	EventType string            `gorm:"type:text;not null" json:"event_type"`
	Details   datatypes.JSONMap `gorm:"type:jsonb" json:"details,omitempty"`

	IPAddress *string `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"not null;index:ix_audit_logs_company_created,priority:2" json:"created_at"`
}

func (AuditEvent) TableName() string { return "audit_logs" }

// AuditCursor positions a page within the (created_at, id) ordering.
type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

// ListFilter narrows the audit listing.
type ListFilter struct {
	CompanyID snowflake.ID
	EventType string
	UserEmail string
	Search    string
	StartAt   *time.Time
	EndAt     *time.Time
	Cursor    *AuditCursor
	Limit     int
}

// Repository persists and queries audit events.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *AuditEvent) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditEvent, error)
}
