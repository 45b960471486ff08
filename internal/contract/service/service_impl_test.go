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

	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/internal/contract/domain"
	"github.com/ntemspark/telm/internal/contract/repository"
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

func newTestService(t *testing.T) (domain.Service, *auditMock, context.Context) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Contract{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	audit := &auditMock{}
	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Audit: audit,
	})

	ctx := companyctx.WithCompanyID(context.Background(), 42)
	return svc, audit, ctx
}

func TestCreateContract(t *testing.T) {
	svc, audit, ctx := newTestService(t)

	contract, err := svc.Create(ctx, domain.CreateContractRequest{
		Vendor:      "  AT&T  ",
		Service:     "MPLS Circuit",
		StartDate:   "2026-01-01",
		EndDate:     "2027-01-01",
		MonthlyCost: "1,250.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "AT&T", contract.Vendor)
	assert.Equal(t, "MPLS Circuit", contract.Service)
	assert.Equal(t, domain.OCRStatusManual, contract.OCRStatus)
	assert.NotZero(t, contract.ID)

	events := audit.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "contract.add", events[0].eventType)
	assert.Equal(t, "AT&T", events[0].details["vendor"])
}

func TestCreateContractValidation(t *testing.T) {
	svc, audit, ctx := newTestService(t)

	_, err := svc.Create(ctx, domain.CreateContractRequest{Vendor: "  ", Service: "Internet"})
	assert.ErrorIs(t, err, domain.ErrInvalidVendor)

	_, err = svc.Create(ctx, domain.CreateContractRequest{Vendor: "Verizon", Service: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidService)

	_, err = svc.Create(context.Background(), domain.CreateContractRequest{Vendor: "Verizon", Service: "Internet"})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)

	assert.Empty(t, audit.recorded())
}

func TestGetByID(t *testing.T) {
	svc, _, ctx := newTestService(t)

	created, err := svc.Create(ctx, domain.CreateContractRequest{Vendor: "Lumen", Service: "SIP Trunk"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Lumen", got.Vendor)

	_, err = svc.GetByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, "999999999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	otherTenant := companyctx.WithCompanyID(context.Background(), 77)
	_, err = svc.GetByID(otherTenant, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseDate(t *testing.T) {
	for _, text := range []string{"2026-03-15", "03/15/2026", "2026/03/15", "3/15/2026", "03-15-2026"} {
		parsed, ok := domain.ParseDate(text)
		require.True(t, ok, text)
		assert.Equal(t, time.March, parsed.Month())
		assert.Equal(t, 15, parsed.Day())
	}

	_, ok := domain.ParseDate("March 15, 2026")
	assert.False(t, ok)
	_, ok = domain.ParseDate("")
	assert.False(t, ok)
}

func TestListExpiring(t *testing.T) {
	svc, _, ctx := newTestService(t)

	endIn := func(d time.Duration) string {
		return time.Now().UTC().Add(d).Format("2006-01-02")
	}

	for _, c := range []domain.CreateContractRequest{
		{Vendor: "Comcast", Service: "Internet", EndDate: endIn(30 * 24 * time.Hour)},
		{Vendor: "AT&T", Service: "MPLS", EndDate: endIn(10 * 24 * time.Hour)},
		{Vendor: "Verizon", Service: "Mobile", EndDate: endIn(120 * 24 * time.Hour)},
		{Vendor: "Lumen", Service: "SIP", EndDate: endIn(-5 * 24 * time.Hour)},
		{Vendor: "Zayo", Service: "Dark Fiber", EndDate: "tbd"},
	} {
		_, err := svc.Create(ctx, c)
		require.NoError(t, err)
	}

	expiring, err := svc.ListExpiring(ctx, 60*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, expiring, 2)
	assert.Equal(t, "AT&T", expiring[0].Vendor)
	assert.Equal(t, "Comcast", expiring[1].Vendor)
}

func TestListFiltersByVendor(t *testing.T) {
	svc, _, ctx := newTestService(t)

	for _, vendor := range []string{"AT&T", "AT&T", "Verizon"} {
		_, err := svc.Create(ctx, domain.CreateContractRequest{Vendor: vendor, Service: "Internet"})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListContractRequest{Vendor: "AT&T"})
	require.NoError(t, err)
	assert.Len(t, resp.Contracts, 2)

	resp, err = svc.List(ctx, domain.ListContractRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Contracts, 3)
}
