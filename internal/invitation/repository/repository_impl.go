package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/invitation/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invite *domain.Invite) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invites (id, company_id, email, role, status, invited_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		invite.ID,
		invite.CompanyID,
		invite.Email,
		invite.Role,
		invite.Status,
		invite.InvitedBy,
		invite.CreatedAt,
	).Error
}

func (r *repo) FindPendingByEmail(ctx context.Context, db *gorm.DB, companyID snowflake.ID, email string) (*domain.Invite, error) {
	var invite domain.Invite
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, email, role, status, invited_by, created_at
		 FROM invites WHERE company_id = ? AND LOWER(email) = ? AND status = ?`,
		companyID,
		strings.ToLower(email),
		domain.StatusPending,
	).Scan(&invite).Error
	if err != nil {
		return nil, err
	}
	if invite.ID == 0 {
		return nil, nil
	}
	return &invite, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]*domain.Invite, error) {
	var invites []*domain.Invite
	err := db.WithContext(ctx).
		Model(&domain.Invite{}).
		Where("company_id = ?", companyID).
		Order("created_at desc, id desc").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}
