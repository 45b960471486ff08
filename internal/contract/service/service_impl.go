package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/internal/contract/domain"
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
		log:   p.Log.Named("contract.service"),
		genID: p.GenID,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateContractRequest) (domain.Contract, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Contract{}, domain.ErrInvalidCompany
	}

	vendor := strings.TrimSpace(req.Vendor)
	if vendor == "" {
		return domain.Contract{}, domain.ErrInvalidVendor
	}
	service := strings.TrimSpace(req.Service)
	if service == "" {
		return domain.Contract{}, domain.ErrInvalidService
	}

	ocrStatus := strings.TrimSpace(req.OCRStatus)
	if ocrStatus == "" {
		ocrStatus = domain.OCRStatusManual
	}

	now := time.Now().UTC()
	contract := domain.Contract{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		Vendor:      vendor,
		Service:     service,
		StartDate:   strings.TrimSpace(req.StartDate),
		EndDate:     strings.TrimSpace(req.EndDate),
		MonthlyCost: strings.TrimSpace(req.MonthlyCost),
		FileURL:     strings.TrimSpace(req.FileURL),
		FileName:    strings.TrimSpace(req.FileName),
		OCRRaw:      req.OCRRaw,
		OCRStatus:   ocrStatus,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &contract); err != nil {
		return domain.Contract{}, err
	}

	s.audit.Record(ctx, "contract.add", map[string]any{
		"vendor":  contract.Vendor,
		"service": contract.Service,
	}, auditdomain.RecordOptions{})

	return contract, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Contract, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Contract{}, domain.ErrInvalidCompany
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.Contract{}, domain.ErrInvalidID
	}

	contract, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if contract == nil {
		return domain.Contract{}, domain.ErrNotFound
	}
	return *contract, nil
}

func (s *Service) List(ctx context.Context, req domain.ListContractRequest) (domain.ListContractResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ListContractResponse{}, domain.ErrInvalidCompany
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, companyID, domain.ListFilter{
		Vendor: strings.TrimSpace(req.Vendor),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListContractResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(contract *domain.Contract) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        contract.ID.String(),
			CreatedAt: contract.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	contracts := make([]domain.Contract, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		contracts = append(contracts, *item)
	}

	resp := domain.ListContractResponse{Contracts: contracts}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) ListExpiring(ctx context.Context, within time.Duration) ([]domain.Contract, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	items, err := s.repo.ListAll(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cutoff := now.Add(within)

	type dated struct {
		contract domain.Contract
		end      time.Time
	}
	var expiring []dated
	for _, item := range items {
		if item == nil {
			continue
		}
		end, ok := domain.ParseDate(item.EndDate)
		if !ok {
			continue
		}
		if end.Before(now) || end.After(cutoff) {
			continue
		}
		expiring = append(expiring, dated{contract: *item, end: end})
	}

	sort.Slice(expiring, func(i, j int) bool {
		return expiring[i].end.Before(expiring[j].end)
	})

	out := make([]domain.Contract, 0, len(expiring))
	for _, d := range expiring {
		out = append(out, d.contract)
	}
	return out, nil
}
