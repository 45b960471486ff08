package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/auditcontext"
	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/internal/macrequest/domain"
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
		log:   p.Log.Named("macrequest.service"),
		genID: p.GenID,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.MACRequest, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.MACRequest{}, domain.ErrInvalidCompany
	}

	reqType := strings.TrimSpace(req.Type)
	if !domain.ValidType(reqType) {
		return domain.MACRequest{}, domain.ErrInvalidType
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.MACRequest{}, domain.ErrInvalidDescription
	}

	var requestedBy string
	if actor, ok := auditcontext.ActorFromContext(ctx); ok {
		requestedBy = actor.Email
	}

	now := time.Now().UTC()
	request := domain.MACRequest{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		Type:        reqType,
		Description: description,
		RequestedBy: requestedBy,
		Status:      domain.StatusSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &request); err != nil {
		return domain.MACRequest{}, err
	}

	s.audit.Record(ctx, "macRequest.add", map[string]any{
		"type":        request.Type,
		"description": request.Description,
	}, auditdomain.RecordOptions{})

	return request, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ListResponse{}, domain.ErrInvalidCompany
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, companyID, strings.TrimSpace(req.Status), pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(request *domain.MACRequest) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        request.ID.String(),
			CreatedAt: request.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	out := make([]domain.MACRequest, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, *item)
	}

	resp := domain.ListResponse{Requests: out}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
