package domain

import (
	"context"
	"errors"

	"github.com/ntemspark/telm/pkg/db/pagination"
)

type CreateItemRequest struct {
	Vendor        string `json:"vendor"`
	Item          string `json:"item"`
	Type          string `json:"type"`
	MonthlyCharge string `json:"monthly_charge"`
	Status        string `json:"status"`
}

type ListItemRequest struct {
	PageToken string
	PageSize  int32
	Vendor    string
	Type      string
	Status    string
}

type ListItemResponse struct {
	pagination.PageInfo
	Items []Item `json:"items"`
}

type Service interface {
	Create(context.Context, CreateItemRequest) (Item, error)
	GetByID(ctx context.Context, id string) (Item, error)
	List(context.Context, ListItemRequest) (ListItemResponse, error)
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidVendor  = errors.New("invalid_vendor")
	ErrInvalidItem    = errors.New("invalid_item")
	ErrInvalidType    = errors.New("invalid_type")
	ErrInvalidCharge  = errors.New("invalid_monthly_charge")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
