package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/auditcontext"
	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/internal/invitation/domain"
	"github.com/ntemspark/telm/internal/invitation/repository"
	orgdomain "github.com/ntemspark/telm/internal/organization/domain"
	orgrepository "github.com/ntemspark/telm/internal/organization/repository"
)

type recordedEvent struct {
	eventType string
	details   map[string]any
}

type auditMock struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (a *auditMock) Record(_ context.Context, eventType string, details map[string]any, _ auditdomain.RecordOptions) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, recordedEvent{eventType: eventType, details: details})
}

func (a *auditMock) List(context.Context, auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	return auditdomain.ListAuditLogResponse{}, nil
}

func (a *auditMock) recorded() []recordedEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]recordedEvent(nil), a.events...)
}

type testEnv struct {
	svc     domain.Service
	db      *gorm.DB
	orgRepo orgdomain.Repository
	audit   *auditMock
	ctx     context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Invite{}, &orgdomain.Member{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	audit := &auditMock{}
	orgRepo := orgrepository.Provide()
	svc := New(Params{
		DB:      conn,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    repository.Provide(),
		OrgRepo: orgRepo,
		Audit:   audit,
	})

	ctx := companyctx.WithCompanyID(context.Background(), 42)
	return &testEnv{svc: svc, db: conn, orgRepo: orgRepo, audit: audit, ctx: ctx}
}

func TestCreateInvite(t *testing.T) {
	env := newTestEnv(t)

	ctx := auditcontext.WithActor(env.ctx, auditcontext.Actor{ID: "u1", Email: "admin@example.com"})
	invite, err := env.svc.Create(ctx, domain.CreateInviteRequest{Email: " New.Hire@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, "new.hire@example.com", invite.Email)
	assert.Equal(t, orgdomain.RoleMember, invite.Role)
	assert.Equal(t, domain.StatusPending, invite.Status)
	assert.Equal(t, "admin@example.com", invite.InvitedBy)

	events := env.audit.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "user.invite", events[0].eventType)
	assert.Equal(t, "new.hire@example.com", events[0].details["email"])
}

func TestCreateInviteValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(env.ctx, domain.CreateInviteRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = env.svc.Create(env.ctx, domain.CreateInviteRequest{Email: "a@b.com", Role: "owner"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = env.svc.Create(context.Background(), domain.CreateInviteRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)

	assert.Empty(t, env.audit.recorded())
}

func TestCreateInviteRejectsExistingMember(t *testing.T) {
	env := newTestEnv(t)

	member := &orgdomain.Member{
		ID:        snowflake.ID(100),
		CompanyID: snowflake.ID(42),
		Email:     "taken@example.com",
		Role:      orgdomain.RoleMember,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, env.orgRepo.InsertMember(env.ctx, env.db, member))

	_, err := env.svc.Create(env.ctx, domain.CreateInviteRequest{Email: "Taken@Example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateMember)
}

func TestCreateInviteRejectsPendingDuplicate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(env.ctx, domain.CreateInviteRequest{Email: "dup@example.com"})
	require.NoError(t, err)

	_, err = env.svc.Create(env.ctx, domain.CreateInviteRequest{Email: "dup@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateInvite)

	// A different tenant is free to invite the same address.
	otherTenant := companyctx.WithCompanyID(context.Background(), 77)
	_, err = env.svc.Create(otherTenant, domain.CreateInviteRequest{Email: "dup@example.com"})
	assert.NoError(t, err)
}

func TestListInvites(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(env.ctx, domain.CreateInviteRequest{Email: "one@example.com", Role: orgdomain.RoleAdmin})
	require.NoError(t, err)

	invites, err := env.svc.List(env.ctx)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, "one@example.com", invites[0].Email)
	assert.Equal(t, orgdomain.RoleAdmin, invites[0].Role)

	otherTenant := companyctx.WithCompanyID(context.Background(), 77)
	invites, err = env.svc.List(otherTenant)
	require.NoError(t, err)
	assert.Empty(t, invites)
}
