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
	"github.com/ntemspark/telm/internal/inventory/domain"
	"github.com/ntemspark/telm/internal/inventory/repository"
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
	svc   domain.Service
	db    *gorm.DB
	repo  domain.Repository
	audit *auditMock
	node  *snowflake.Node
	ctx   context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Item{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	audit := &auditMock{}
	repo := repository.Provide()
	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
		Audit: audit,
	})

	ctx := companyctx.WithCompanyID(context.Background(), 42)
	return &testEnv{svc: svc, db: conn, repo: repo, audit: audit, node: node, ctx: ctx}
}

func TestCreateItem(t *testing.T) {
	env := newTestEnv(t)

	item, err := env.svc.Create(env.ctx, domain.CreateItemRequest{
		Vendor:        " AT&T ",
		Item:          "Circuit DS3",
		Type:          domain.TypeCircuit,
		MonthlyCharge: "1250.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "AT&T", item.Vendor)
	assert.Equal(t, domain.StatusActive, item.Status)

	events := env.audit.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "inventory.add", events[0].eventType)
	assert.Equal(t, "Circuit DS3", events[0].details["item"])
}

func TestCreateItemValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(env.ctx, domain.CreateItemRequest{Item: "x", Type: domain.TypePhone, MonthlyCharge: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidVendor)

	_, err = env.svc.Create(env.ctx, domain.CreateItemRequest{Vendor: "v", Item: "x", Type: "Satellite", MonthlyCharge: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	_, err = env.svc.Create(env.ctx, domain.CreateItemRequest{Vendor: "v", Item: "x", Type: domain.TypePhone, MonthlyCharge: "1", Status: "Broken"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = env.svc.Create(context.Background(), domain.CreateItemRequest{Vendor: "v", Item: "x", Type: domain.TypePhone, MonthlyCharge: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}

// Batch-committed rows share one created_at, so cursor paging has to
// break ties on id to reach the rest of the batch.
func TestListPagesThroughSameTimestampRows(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now().UTC()
	var batch []*domain.Item
	for i := 0; i < 5; i++ {
		batch = append(batch, &domain.Item{
			ID:            env.node.Generate(),
			CompanyID:     snowflake.ID(42),
			Vendor:        "AT&T",
			Item:          "Line",
			Type:          domain.TypePhone,
			MonthlyCharge: "45",
			Status:        domain.StatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	require.NoError(t, env.repo.InsertBatch(env.ctx, env.db, batch))

	seen := map[snowflake.ID]bool{}
	token := ""
	pages := 0
	for {
		resp, err := env.svc.List(env.ctx, domain.ListItemRequest{PageSize: 2, PageToken: token})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Items, "page %d came back empty", pages+1)
		for _, item := range resp.Items {
			assert.False(t, seen[item.ID], "item %s returned twice", item.ID)
			seen[item.ID] = true
		}
		pages++
		if !resp.HasMore {
			break
		}
		token = resp.NextPageToken
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 5)
}

func TestGetItemByID(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(env.ctx, domain.CreateItemRequest{
		Vendor:        "Verizon",
		Item:          "Mobile 1042",
		Type:          domain.TypeMobile,
		MonthlyCharge: "80",
	})
	require.NoError(t, err)

	got, err := env.svc.GetByID(env.ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	otherTenant := companyctx.WithCompanyID(context.Background(), 77)
	_, err = env.svc.GetByID(otherTenant, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
