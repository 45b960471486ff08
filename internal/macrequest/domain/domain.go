package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/pkg/db/pagination"
)

// MACRequest is a move/add/change/disconnect ticket against tracked
// inventory.
type MACRequest struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID `gorm:"not null;index" json:"company_id"`
	Type        string       `gorm:"not null" json:"type"`
	Description string       `gorm:"not null" json:"description"`
	RequestedBy string       `json:"requested_by"`
	Status      string       `gorm:"not null" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MACRequest) TableName() string { return "mac_requests" }

const (
	TypeMove       = "Move"
	TypeAdd        = "Add"
	TypeChange     = "Change"
	TypeDisconnect = "Disconnect"
)

const (
	StatusSubmitted  = "Submitted"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

func ValidType(t string) bool {
	switch t {
	case TypeMove, TypeAdd, TypeChange, TypeDisconnect:
		return true
	}
	return false
}

type CreateRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type ListRequest struct {
	PageToken string
	PageSize  int32
	Status    string
}

type ListResponse struct {
	pagination.PageInfo
	Requests []MACRequest `json:"requests"`
}

type Service interface {
	Create(context.Context, CreateRequest) (MACRequest, error)
	List(context.Context, ListRequest) (ListResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, req *MACRequest) error
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, status string, page pagination.Pagination) ([]*MACRequest, error)
	CountOpen(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error)
}

var (
	ErrInvalidCompany     = errors.New("invalid_company")
	ErrInvalidType        = errors.New("invalid_type")
	ErrInvalidDescription = errors.New("invalid_description")
)
