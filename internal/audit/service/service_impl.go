package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	auditcontext "github.com/ntemspark/telm/internal/auditcontext"
	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/internal/observability/metrics"
	"github.com/ntemspark/telm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    auditdomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    auditdomain.Repository
	metrics *metrics.Metrics

	writeTimeout time.Duration
	pending      sync.WaitGroup
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("audit.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		metrics:      p.Metrics,
		writeTimeout: 10 * time.Second,
	}
}

// Record writes an audit event on a detached goroutine. The caller's
// operation has already completed by the time this runs; a failed write is
// logged for operators and otherwise swallowed.
func (s *Service) Record(ctx context.Context, eventType string, details map[string]any, opts auditdomain.RecordOptions) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		s.log.Warn("dropping audit event with empty event type")
		return
	}

	entry := s.buildEvent(ctx, eventType, details, opts)

	// Detach from the request lifetime but keep context values for logging.
	detached := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		writeCtx, cancel := context.WithTimeout(detached, s.writeTimeout)
		defer cancel()

		if err := s.repo.Insert(writeCtx, s.db, entry); err != nil {
			s.log.Warn("failed to write audit log",
				zap.String("event_type", eventType),
				zap.Error(err),
			)
			return
		}
		s.metrics.RecordAuditEvent(writeCtx, eventType)
	}()
}

// Wait blocks until all in-flight audit writes settle. Intended for tests
// and shutdown.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) buildEvent(ctx context.Context, eventType string, details map[string]any, opts auditdomain.RecordOptions) *auditdomain.AuditEvent {
	payload := map[string]any{}
	for key, value := range details {
		if key == "" {
			continue
		}
		payload[key] = value
	}
	if requestID := auditcontext.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}

	entry := &auditdomain.AuditEvent{
		ID:        s.genID.Generate(),
		CompanyID: s.resolveCompanyID(ctx, opts.CompanyID, details),
		EventType: eventType,
		Details:   datatypes.JSONMap(payload),
		CreatedAt: time.Now().UTC(),
	}

	entry.UserID, entry.UserEmail = s.resolveActor(ctx, opts)

	if ip := auditcontext.IPAddressFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := auditcontext.UserAgentFromContext(ctx); ua != "" {
		entry.UserAgent = &ua
	}
	return entry
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidCompany
	}

	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidTimeRange
	}

	var cursor *auditdomain.AuditCursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339, decoded.CreatedAt)
		if err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
		cursor = &auditdomain.AuditCursor{
			ID:        id,
			CreatedAt: createdAt,
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 250 {
		pageSize = 250
	}

	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		CompanyID: companyID,
		EventType: req.EventType,
		UserEmail: req.UserEmail,
		Search:    req.Search,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Cursor:    cursor,
		Limit:     pageSize,
	})
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(item *auditdomain.AuditEvent) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	logs := make([]auditdomain.AuditEvent, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		logs = append(logs, *item)
	}

	resp := auditdomain.ListAuditLogResponse{AuditLogs: logs}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) resolveCompanyID(ctx context.Context, override *snowflake.ID, details map[string]any) *snowflake.ID {
	if override != nil && *override != 0 {
		return override
	}
	if raw, ok := details["companyId"]; ok {
		switch typed := raw.(type) {
		case snowflake.ID:
			if typed != 0 {
				return &typed
			}
		case int64:
			if typed != 0 {
				id := snowflake.ID(typed)
				return &id
			}
		case string:
			if parsed, err := snowflake.ParseString(strings.TrimSpace(typed)); err == nil && parsed != 0 {
				return &parsed
			}
		}
	}
	resolved, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || resolved == 0 {
		return nil
	}
	return &resolved
}

func (s *Service) resolveActor(ctx context.Context, opts auditdomain.RecordOptions) (*string, *string) {
	userID := normalizePointer(opts.UserID)
	userEmail := normalizePointer(opts.UserEmail)
	if userID != nil || userEmail != nil {
		return userID, userEmail
	}

	if actor, ok := auditcontext.ActorFromContext(ctx); ok {
		if id := strings.TrimSpace(actor.ID); id != "" {
			userID = &id
		}
		if email := strings.TrimSpace(actor.Email); email != "" {
			userEmail = &email
		}
	}
	// System events carry no actor at all.
	return userID, userEmail
}

func normalizePointer(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
