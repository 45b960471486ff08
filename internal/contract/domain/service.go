package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/pkg/db/pagination"
)

type CreateContractRequest struct {
	Vendor      string `json:"vendor"`
	Service     string `json:"service"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	MonthlyCost string `json:"monthly_cost"`
	FileURL     string `json:"file_url"`
	FileName    string `json:"file_name"`
	OCRRaw      string `json:"ocr_raw"`
	OCRStatus   string `json:"ocr_status"`
}

type ListContractRequest struct {
	PageToken string
	PageSize  int32
	Vendor    string
}

type ListContractResponse struct {
	pagination.PageInfo
	Contracts []Contract `json:"contracts"`
}

type Service interface {
	Create(context.Context, CreateContractRequest) (Contract, error)
	GetByID(ctx context.Context, id string) (Contract, error)
	List(context.Context, ListContractRequest) (ListContractResponse, error)
	// ListExpiring returns contracts whose end date falls within the
	// renewal window, soonest first. Contracts with unparsable end
	// dates are excluded.
	ListExpiring(ctx context.Context, within time.Duration) ([]Contract, error)
}

type ListFilter struct {
	Vendor string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, contract *Contract) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Contract, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Contract, error)
	ListAll(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]*Contract, error)
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidVendor  = errors.New("invalid_vendor")
	ErrInvalidService = errors.New("invalid_service")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
