package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	organizationdomain "github.com/ntemspark/telm/internal/organization/domain"
)

const defaultCompanyName = "Main"

// EnsureDefaultCompany seeds the default company for startup bootstrap.
func EnsureDefaultCompany(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureCompanyTx(ctx, tx, node.Generate())
		return err
	})
}

// EnsureDefaultCompanyWithID seeds the default company under a fixed ID so
// single-tenant installs can pin the tenant via configuration.
func EnsureDefaultCompanyWithID(db *gorm.DB, id int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if id == 0 {
		return errors.New("seed company id is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureCompanyTx(ctx, tx, snowflake.ID(id))
		return err
	})
}

func ensureCompanyTx(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*organizationdomain.Company, error) {
	var company organizationdomain.Company
	err := tx.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if err == nil {
		return &company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	company = organizationdomain.Company{
		ID:        id,
		Name:      defaultCompanyName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}
