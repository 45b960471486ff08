package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/organization/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertCompany(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO companies (id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		company.ID,
		company.Name,
		company.CreatedAt,
		company.UpdatedAt,
	).Error
}

func (r *repo) FindCompanyByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, created_at, updated_at FROM companies WHERE id = ?`,
		id,
	).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repo) InsertMember(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO members (id, company_id, email, role, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		member.ID,
		member.CompanyID,
		member.Email,
		member.Role,
		member.CreatedAt,
	).Error
}

func (r *repo) FindMemberByEmail(ctx context.Context, db *gorm.DB, companyID snowflake.ID, email string) (*domain.Member, error) {
	var member domain.Member
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, email, role, created_at
		 FROM members WHERE company_id = ? AND LOWER(email) = ?`,
		companyID,
		strings.ToLower(email),
	).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.ID == 0 {
		return nil, nil
	}
	return &member, nil
}

func (r *repo) ListMembers(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]*domain.Member, error) {
	var members []*domain.Member
	err := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("company_id = ?", companyID).
		Order("created_at asc, id asc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
