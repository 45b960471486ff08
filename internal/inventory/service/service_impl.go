package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/internal/inventory/domain"
	"github.com/ntemspark/telm/pkg/db/pagination"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Audit auditdomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	audit auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("inventory.service"),
		genID: p.GenID,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Item{}, domain.ErrInvalidCompany
	}

	vendor := strings.TrimSpace(req.Vendor)
	if vendor == "" {
		return domain.Item{}, domain.ErrInvalidVendor
	}
	name := strings.TrimSpace(req.Item)
	if name == "" {
		return domain.Item{}, domain.ErrInvalidItem
	}
	itemType := strings.TrimSpace(req.Type)
	if !domain.ValidType(itemType) {
		return domain.Item{}, domain.ErrInvalidType
	}
	charge := strings.TrimSpace(req.MonthlyCharge)
	if charge == "" {
		return domain.Item{}, domain.ErrInvalidCharge
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.StatusActive
	}
	if !domain.ValidStatus(status) {
		return domain.Item{}, domain.ErrInvalidStatus
	}

	now := time.Now().UTC()
	item := domain.Item{
		ID:            s.genID.Generate(),
		CompanyID:     companyID,
		Vendor:        vendor,
		Item:          name,
		Type:          itemType,
		MonthlyCharge: charge,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, &item); err != nil {
		return domain.Item{}, err
	}

	s.audit.Record(ctx, "inventory.add", map[string]any{
		"vendor": item.Vendor,
		"item":   item.Item,
		"type":   item.Type,
	}, auditdomain.RecordOptions{})

	return item, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Item, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Item{}, domain.ErrInvalidCompany
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.Item{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.Item{}, err
	}
	if item == nil {
		return domain.Item{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListItemRequest) (domain.ListItemResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ListItemResponse{}, domain.ErrInvalidCompany
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, companyID, domain.ListFilter{
		Vendor: strings.TrimSpace(req.Vendor),
		Type:   strings.TrimSpace(req.Type),
		Status: strings.TrimSpace(req.Status),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListItemResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(item *domain.Item) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, *item)
	}

	resp := domain.ListItemResponse{Items: out}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
