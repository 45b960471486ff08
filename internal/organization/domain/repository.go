package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertCompany(ctx context.Context, db *gorm.DB, company *Company) error
	FindCompanyByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Company, error)
	InsertMember(ctx context.Context, db *gorm.DB, member *Member) error
	FindMemberByEmail(ctx context.Context, db *gorm.DB, companyID snowflake.ID, email string) (*Member, error)
	ListMembers(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]*Member, error)
}
