package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/inventory/domain"
	"github.com/ntemspark/telm/pkg/db/option"
	"github.com/ntemspark/telm/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *domain.Item) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO inventory_items (id, company_id, vendor, item, type, monthly_charge, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.CompanyID,
		item.Vendor,
		item.Item,
		item.Type,
		item.MonthlyCharge,
		item.Status,
		item.CreatedAt,
		item.UpdatedAt,
	).Error
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, items []*domain.Item) error {
	for _, item := range items {
		if err := r.Insert(ctx, db, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Item, error) {
	var item domain.Item
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, vendor, item, type, monthly_charge, status, created_at, updated_at
		 FROM inventory_items WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Item, error) {
	var items []*domain.Item
	stmt := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("company_id = ?", companyID)
	if filter.Vendor != "" {
		stmt = stmt.Where("vendor = ?", filter.Vendor)
	}
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB, companyID snowflake.ID, status string) (int64, error) {
	var count int64
	stmt := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("company_id = ?", companyID)
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if err := stmt.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
