package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/pkg/db/pagination"
)

type ListFilter struct {
	Vendor      string
	Type        string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *Item) error
	// InsertBatch writes every item or none; callers run it inside a
	// transaction when atomicity across the batch matters.
	InsertBatch(ctx context.Context, db *gorm.DB, items []*Item) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Item, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Item, error)
	CountByStatus(ctx context.Context, db *gorm.DB, companyID snowflake.ID, status string) (int64, error)
}
