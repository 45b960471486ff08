package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ntemspark/telm/pkg/db/pagination"
)

// RecordOptions optionally override the ambient company and actor.
type RecordOptions struct {
	CompanyID *snowflake.ID
	UserID    *string
	UserEmail *string
}

type ListAuditLogRequest struct {
	pagination.Pagination
	EventType string
	UserEmail string
	Search    string
	StartAt   *time.Time
	EndAt     *time.Time
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditEvent `json:"audit_logs"`
}

// Service records and lists audit events. Record is fire-and-forget: it
// never returns an error to the caller and never blocks on the write.
type Service interface {
	Record(ctx context.Context, eventType string, details map[string]any, opts RecordOptions)
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidCompany   = errors.New("invalid_company")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
	ErrInvalidEventType = errors.New("invalid_event_type")
)
