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
	"github.com/ntemspark/telm/internal/invitation/domain"
	orgdomain "github.com/ntemspark/telm/internal/organization/domain"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	OrgRepo orgdomain.Repository
	Audit   auditdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	orgRepo orgdomain.Repository
	audit   auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("invitation.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		orgRepo: p.OrgRepo,
		audit:   p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInviteRequest) (domain.Invite, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Invite{}, domain.ErrInvalidCompany
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Invite{}, domain.ErrInvalidEmail
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = orgdomain.RoleMember
	}
	if role != orgdomain.RoleAdmin && role != orgdomain.RoleMember {
		return domain.Invite{}, domain.ErrInvalidRole
	}

	member, err := s.orgRepo.FindMemberByEmail(ctx, s.db, companyID, email)
	if err != nil {
		return domain.Invite{}, err
	}
	if member != nil {
		return domain.Invite{}, domain.ErrDuplicateMember
	}

	pending, err := s.repo.FindPendingByEmail(ctx, s.db, companyID, email)
	if err != nil {
		return domain.Invite{}, err
	}
	if pending != nil {
		return domain.Invite{}, domain.ErrDuplicateInvite
	}

	var invitedBy string
	if actor, ok := auditcontext.ActorFromContext(ctx); ok {
		invitedBy = actor.Email
	}

	invite := domain.Invite{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Email:     email,
		Role:      role,
		Status:    domain.StatusPending,
		InvitedBy: invitedBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &invite); err != nil {
		return domain.Invite{}, err
	}

	s.audit.Record(ctx, "user.invite", map[string]any{
		"email": invite.Email,
		"role":  invite.Role,
	}, auditdomain.RecordOptions{})

	return invite, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Invite, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	items, err := s.repo.List(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}

	invites := make([]domain.Invite, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invites = append(invites, *item)
	}
	return invites, nil
}
