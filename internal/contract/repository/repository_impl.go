package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/contract/domain"
	"github.com/ntemspark/telm/pkg/db/option"
	"github.com/ntemspark/telm/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, contract *domain.Contract) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO contracts (id, company_id, vendor, service, start_date, end_date, monthly_cost, file_url, file_name, ocr_raw, ocr_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contract.ID,
		contract.CompanyID,
		contract.Vendor,
		contract.Service,
		contract.StartDate,
		contract.EndDate,
		contract.MonthlyCost,
		contract.FileURL,
		contract.FileName,
		contract.OCRRaw,
		contract.OCRStatus,
		contract.CreatedAt,
		contract.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Contract, error) {
	var contract domain.Contract
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM contracts WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Scan(&contract).Error
	if err != nil {
		return nil, err
	}
	if contract.ID == 0 {
		return nil, nil
	}
	return &contract, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Contract, error) {
	var contracts []*domain.Contract
	stmt := db.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("company_id = ?", companyID)
	if filter.Vendor != "" {
		stmt = stmt.Where("vendor = ?", filter.Vendor)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]*domain.Contract, error) {
	var contracts []*domain.Contract
	err := db.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("company_id = ?", companyID).
		Order("created_at desc, id desc").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
