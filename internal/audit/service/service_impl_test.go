package service

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

	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	"github.com/ntemspark/telm/internal/audit/repository"
	"github.com/ntemspark/telm/internal/auditcontext"
	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/pkg/db/pagination"
)

func paginationOf(size int) pagination.Pagination {
	return pagination.Pagination{PageSize: size}
}

func paginationWithToken(size int, token string) pagination.Pagination {
	return pagination.Pagination{PageSize: size, PageToken: token}
}

func newTestService(t *testing.T) (*Service, *gorm.DB, snowflake.ID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auditdomain.AuditEvent{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	}).(*Service)

	return svc, db, node.Generate()
}

func companyContext(companyID snowflake.ID) context.Context {
	return companyctx.WithCompanyID(context.Background(), int64(companyID))
}

func fetchEvents(t *testing.T, db *gorm.DB) []auditdomain.AuditEvent {
	t.Helper()
	var events []auditdomain.AuditEvent
	require.NoError(t, db.Model(&auditdomain.AuditEvent{}).Order("created_at asc, id asc").Find(&events).Error)
	return events
}

func TestRecordWritesEvent(t *testing.T) {
	svc, db, companyID := newTestService(t)

	ctx := companyContext(companyID)
	ctx = auditcontext.WithActor(ctx, auditcontext.Actor{ID: "u1", Email: "ops@acme.test"})

	svc.Record(ctx, "inventory.add", map[string]any{"vendor": "Verizon"}, auditdomain.RecordOptions{})
	svc.Wait()

	events := fetchEvents(t, db)
	require.Len(t, events, 1)
	assert.Equal(t, "inventory.add", events[0].EventType)
	require.NotNil(t, events[0].CompanyID)
	assert.Equal(t, companyID, *events[0].CompanyID)
	require.NotNil(t, events[0].UserEmail)
	assert.Equal(t, "ops@acme.test", *events[0].UserEmail)
	assert.Equal(t, "Verizon", events[0].Details["vendor"])
}

func TestRecordSurvivesCanceledContext(t *testing.T) {
	svc, db, companyID := newTestService(t)

	ctx, cancel := context.WithCancel(companyContext(companyID))
	cancel()

	svc.Record(ctx, "contract.add", map[string]any{"vendor": "Lumen"}, auditdomain.RecordOptions{})
	svc.Wait()

	events := fetchEvents(t, db)
	require.Len(t, events, 1)
	assert.Equal(t, "contract.add", events[0].EventType)
}

func TestRecordSwallowsWriteFailure(t *testing.T) {
	svc, db, companyID := newTestService(t)
	require.NoError(t, db.Exec("DROP TABLE audit_logs").Error)

	assert.NotPanics(t, func() {
		svc.Record(companyContext(companyID), "inventory.add", nil, auditdomain.RecordOptions{})
		svc.Wait()
	})
}

func TestRecordDropsEmptyEventType(t *testing.T) {
	svc, db, companyID := newTestService(t)

	svc.Record(companyContext(companyID), "   ", nil, auditdomain.RecordOptions{})
	svc.Wait()

	assert.Empty(t, fetchEvents(t, db))
}

func TestRecordCompanyOverride(t *testing.T) {
	svc, db, companyID := newTestService(t)

	override := companyID + 1
	svc.Record(context.Background(), "user.invite", map[string]any{"email": "a@b.test"}, auditdomain.RecordOptions{
		CompanyID: &override,
	})
	svc.Wait()

	events := fetchEvents(t, db)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].CompanyID)
	assert.Equal(t, override, *events[0].CompanyID)
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc, _, companyID := newTestService(t)
	ctx := companyContext(companyID)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		svc.Record(ctx, "inventory.add", map[string]any{"n": i, "at": base.Add(time.Duration(i) * time.Minute)}, auditdomain.RecordOptions{})
	}
	svc.Record(ctx, "user.invite", map[string]any{"email": "a@b.test"}, auditdomain.RecordOptions{})
	svc.Wait()

	byType, err := svc.List(ctx, auditdomain.ListAuditLogRequest{EventType: "user.invite"})
	require.NoError(t, err)
	require.Len(t, byType.AuditLogs, 1)
	assert.Equal(t, "user.invite", byType.AuditLogs[0].EventType)

	page, err := svc.List(ctx, auditdomain.ListAuditLogRequest{
		Pagination: paginationOf(3),
	})
	require.NoError(t, err)
	assert.Len(t, page.AuditLogs, 3)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextPageToken)

	rest, err := svc.List(ctx, auditdomain.ListAuditLogRequest{
		Pagination: paginationWithToken(3, page.NextPageToken),
	})
	require.NoError(t, err)
	assert.Len(t, rest.AuditLogs, 3)
	assert.False(t, rest.HasMore)
}

func TestListRejectsBadInput(t *testing.T) {
	svc, _, companyID := newTestService(t)
	ctx := companyContext(companyID)

	_, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidCompany)

	_, err = svc.List(ctx, auditdomain.ListAuditLogRequest{Pagination: paginationWithToken(10, "!!!not-base64")})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidPageToken)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = svc.List(ctx, auditdomain.ListAuditLogRequest{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidTimeRange)
}

func TestListTenantIsolation(t *testing.T) {
	svc, _, companyID := newTestService(t)

	svc.Record(companyContext(companyID), "inventory.add", nil, auditdomain.RecordOptions{})
	svc.Wait()

	other, err := svc.List(companyContext(companyID+7), auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	assert.Empty(t, other.AuditLogs)
}
