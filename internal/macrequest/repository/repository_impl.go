package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/macrequest/domain"
	"github.com/ntemspark/telm/pkg/db/option"
	"github.com/ntemspark/telm/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, req *domain.MACRequest) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO mac_requests (id, company_id, type, description, requested_by, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.CompanyID,
		req.Type,
		req.Description,
		req.RequestedBy,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, status string, page pagination.Pagination) ([]*domain.MACRequest, error) {
	var requests []*domain.MACRequest
	stmt := db.WithContext(ctx).
		Model(&domain.MACRequest{}).
		Where("company_id = ?", companyID)
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repo) CountOpen(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.MACRequest{}).
		Where("company_id = ? AND status != ?", companyID, domain.StatusCompleted).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
