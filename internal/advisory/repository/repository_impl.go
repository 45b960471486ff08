package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/advisory/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *domain.Recommendation) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO advisory_recommendations (id, company_id, category, description, potential_savings, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CompanyID,
		rec.Category,
		rec.Description,
		rec.PotentialSavings,
		rec.Status,
		rec.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]*domain.Recommendation, error) {
	var recs []*domain.Recommendation
	err := db.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("company_id = ?", companyID).
		Order("created_at desc, id desc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
