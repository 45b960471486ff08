package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/advisory/domain"
	"github.com/ntemspark/telm/internal/companyctx"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("advisory.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Recommendation, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Recommendation{}, domain.ErrInvalidCompany
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.Recommendation{}, domain.ErrInvalidCategory
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Recommendation{}, domain.ErrInvalidDescription
	}

	rec := domain.Recommendation{
		ID:               s.genID.Generate(),
		CompanyID:        companyID,
		Category:         category,
		Description:      description,
		PotentialSavings: strings.TrimSpace(req.PotentialSavings),
		Status:           domain.StatusOpen,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &rec); err != nil {
		return domain.Recommendation{}, err
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Recommendation, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	items, err := s.repo.List(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}

	recs := make([]domain.Recommendation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		recs = append(recs, *item)
	}
	return recs, nil
}
