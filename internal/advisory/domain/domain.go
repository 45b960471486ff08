package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Recommendation is a cost-savings observation raised against a tenant's
// telecom spend. PotentialSavings is a monthly figure, decimal-as-text.
type Recommendation struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID        snowflake.ID `gorm:"not null;index" json:"company_id"`
	Category         string       `gorm:"not null" json:"category"`
	Description      string       `gorm:"not null" json:"description"`
	PotentialSavings string       `json:"potential_savings"`
	Status           string       `gorm:"not null" json:"status"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Recommendation) TableName() string { return "advisory_recommendations" }

const (
	StatusOpen      = "Open"
	StatusActioned  = "Actioned"
	StatusDismissed = "Dismissed"
)

type CreateRequest struct {
	Category         string `json:"category"`
	Description      string `json:"description"`
	PotentialSavings string `json:"potential_savings"`
}

type Service interface {
	Create(context.Context, CreateRequest) (Recommendation, error)
	List(ctx context.Context) ([]Recommendation, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *Recommendation) error
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]*Recommendation, error)
}

var (
	ErrInvalidCompany     = errors.New("invalid_company")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidDescription = errors.New("invalid_description")
)
