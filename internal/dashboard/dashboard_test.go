package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	advisorydomain "github.com/ntemspark/telm/internal/advisory/domain"
	advisoryrepository "github.com/ntemspark/telm/internal/advisory/repository"
	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	"github.com/ntemspark/telm/internal/companyctx"
	contractdomain "github.com/ntemspark/telm/internal/contract/domain"
	contractrepository "github.com/ntemspark/telm/internal/contract/repository"
	contractservice "github.com/ntemspark/telm/internal/contract/service"
	inventorydomain "github.com/ntemspark/telm/internal/inventory/domain"
	inventoryrepository "github.com/ntemspark/telm/internal/inventory/repository"
	macdomain "github.com/ntemspark/telm/internal/macrequest/domain"
	macrepository "github.com/ntemspark/telm/internal/macrequest/repository"
)

type noopAudit struct{}

func (noopAudit) Record(context.Context, string, map[string]any, auditdomain.RecordOptions) {}
func (noopAudit) List(context.Context, auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	return auditdomain.ListAuditLogResponse{}, nil
}

type testEnv struct {
	svc Service
	db  *gorm.DB
	ctx context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&contractdomain.Contract{},
		&inventorydomain.Item{},
		&macdomain.MACRequest{},
		&advisorydomain.Recommendation{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	contractRepo := contractrepository.Provide()
	contractSvc := contractservice.New(contractservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  contractRepo,
		Audit: noopAudit{},
	})

	svc := New(Params{
		DB:            conn,
		Log:           zap.NewNop(),
		ContractRepo:  contractRepo,
		ContractSvc:   contractSvc,
		InventoryRepo: inventoryrepository.Provide(),
		MACRepo:       macrepository.Provide(),
		AdvisoryRepo:  advisoryrepository.Provide(),
	})

	ctx := companyctx.WithCompanyID(context.Background(), 42)
	return &testEnv{svc: svc, db: conn, ctx: ctx}
}

func TestSummaryAggregates(t *testing.T) {
	env := newTestEnv(t)
	companyID := snowflake.ID(42)
	now := time.Now().UTC()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	contractRepo := contractrepository.Provide()
	renewalEnd := now.Add(30 * 24 * time.Hour).Format("2006-01-02")
	farEnd := now.Add(200 * 24 * time.Hour).Format("2006-01-02")
	for _, c := range []*contractdomain.Contract{
		{ID: node.Generate(), CompanyID: companyID, Vendor: "AT&T", Service: "MPLS", MonthlyCost: "$100.50", EndDate: renewalEnd, OCRStatus: contractdomain.OCRStatusManual, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), CompanyID: companyID, Vendor: "Verizon", Service: "Mobile", MonthlyCost: "1,200", EndDate: farEnd, OCRStatus: contractdomain.OCRStatusManual, CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, contractRepo.Insert(env.ctx, env.db, c))
	}

	inventoryRepo := inventoryrepository.Provide()
	for _, item := range []*inventorydomain.Item{
		{ID: node.Generate(), CompanyID: companyID, Vendor: "AT&T", Item: "Circuit A", Type: inventorydomain.TypeCircuit, MonthlyCharge: "500", Status: inventorydomain.StatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), CompanyID: companyID, Vendor: "AT&T", Item: "Circuit B", Type: inventorydomain.TypeCircuit, MonthlyCharge: "500", Status: inventorydomain.StatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), CompanyID: companyID, Vendor: "Verizon", Item: "Old Line", Type: inventorydomain.TypePhone, MonthlyCharge: "45", Status: inventorydomain.StatusInactive, CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, inventoryRepo.Insert(env.ctx, env.db, item))
	}

	macRepo := macrepository.Provide()
	for _, req := range []*macdomain.MACRequest{
		{ID: node.Generate(), CompanyID: companyID, Type: macdomain.TypeAdd, Description: "New line", Status: macdomain.StatusSubmitted, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), CompanyID: companyID, Type: macdomain.TypeDisconnect, Description: "Drop line", Status: macdomain.StatusInProgress, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), CompanyID: companyID, Type: macdomain.TypeChange, Description: "Done", Status: macdomain.StatusCompleted, CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, macRepo.Insert(env.ctx, env.db, req))
	}

	advisoryRepo := advisoryrepository.Provide()
	for _, rec := range []*advisorydomain.Recommendation{
		{ID: node.Generate(), CompanyID: companyID, Category: "unused", Description: "Disconnect idle circuit", PotentialSavings: "50", Status: advisorydomain.StatusOpen, CreatedAt: now},
		{ID: node.Generate(), CompanyID: companyID, Category: "plan", Description: "Already handled", PotentialSavings: "99", Status: advisorydomain.StatusDismissed, CreatedAt: now},
	} {
		require.NoError(t, advisoryRepo.Insert(env.ctx, env.db, rec))
	}

	summary, err := env.svc.Summary(env.ctx)
	require.NoError(t, err)

	assert.InDelta(t, 1300.50, summary.MonthlySpend, 0.001)
	assert.InDelta(t, 1300.50*12, summary.YTDSpend, 0.001)
	assert.Equal(t, 2, summary.ContractCount)
	assert.Equal(t, int64(3), summary.InventoryCount)
	assert.Equal(t, int64(2), summary.ActiveInventoryCount)
	assert.Equal(t, int64(2), summary.OpenMACRequests)
	assert.InDelta(t, 50, summary.PotentialSavingsMonthly, 0.001)
	assert.InDelta(t, 600, summary.PotentialSavingsAnnual, 0.001)
	require.Len(t, summary.UpcomingRenewals, 1)
	assert.Equal(t, "AT&T", summary.UpcomingRenewals[0].Vendor)
}

func TestSummaryRequiresCompany(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Summary(context.Background())
	assert.ErrorIs(t, err, contractdomain.ErrInvalidCompany)
}

func TestSummaryEmptyTenant(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.svc.Summary(env.ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.MonthlySpend)
	assert.Zero(t, summary.ContractCount)
	assert.Empty(t, summary.UpcomingRenewals)
}

func TestParseMoney(t *testing.T) {
	cases := map[string]float64{
		"100":       100,
		"$100.50":   100.5,
		"1,250.00":  1250,
		" $2,000 ":  2000,
		"":          0,
		"tbd":       0,
		"$12,345.6": 12345.6,
	}
	for text, want := range cases {
		assert.InDelta(t, want, ParseMoney(text), 0.001, text)
	}
}
