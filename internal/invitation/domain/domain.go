package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Invite struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Email     string       `gorm:"not null" json:"email"`
	Role      string       `gorm:"not null" json:"role"`
	Status    string       `gorm:"not null" json:"status"`
	InvitedBy string       `json:"invited_by"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Invite) TableName() string { return "invites" }

const StatusPending = "Pending"

type CreateInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Service interface {
	Create(context.Context, CreateInviteRequest) (Invite, error)
	List(ctx context.Context) ([]Invite, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invite *Invite) error
	FindPendingByEmail(ctx context.Context, db *gorm.DB, companyID snowflake.ID, email string) (*Invite, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]*Invite, error)
}

var (
	ErrInvalidCompany  = errors.New("invalid_company")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidRole     = errors.New("invalid_role")
	ErrDuplicateMember = errors.New("duplicate_member")
	ErrDuplicateInvite = errors.New("duplicate_invite")
)
