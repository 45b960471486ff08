package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/internal/organization/domain"
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
		log:   p.Log.Named("organization.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateCompany(ctx context.Context, req domain.CreateCompanyRequest) (domain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Company{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	company := domain.Company{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertCompany(ctx, s.db, &company); err != nil {
		return domain.Company{}, err
	}
	return company, nil
}

func (s *Service) GetCompany(ctx context.Context) (domain.Company, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Company{}, domain.ErrInvalidCompany
	}

	company, err := s.repo.FindCompanyByID(ctx, s.db, companyID)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}
	return *company, nil
}

func (s *Service) AddMember(ctx context.Context, req domain.AddMemberRequest) (domain.Member, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Member{}, domain.ErrInvalidCompany
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Member{}, domain.ErrInvalidEmail
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return domain.Member{}, domain.ErrInvalidRole
	}

	existing, err := s.repo.FindMemberByEmail(ctx, s.db, companyID, email)
	if err != nil {
		return domain.Member{}, err
	}
	if existing != nil {
		return domain.Member{}, domain.ErrDuplicateMember
	}

	member := domain.Member{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertMember(ctx, s.db, &member); err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

func (s *Service) ListMembers(ctx context.Context) ([]domain.Member, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	items, err := s.repo.ListMembers(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		members = append(members, *item)
	}
	return members, nil
}
