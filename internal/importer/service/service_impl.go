package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/internal/config"
	"github.com/ntemspark/telm/internal/extract"
	"github.com/ntemspark/telm/internal/importer/domain"
	inventorydomain "github.com/ntemspark/telm/internal/inventory/domain"
	"github.com/ntemspark/telm/internal/observability/metrics"
	"github.com/ntemspark/telm/internal/tabular"
)

// sessionTTL bounds how long an unconfirmed preview is kept around.
const sessionTTL = time.Hour

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Holder        *config.ExtractionHolder
	InventoryRepo inventorydomain.Repository
	Audit         auditdomain.Service
	Metrics       *metrics.Metrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	holder        *config.ExtractionHolder
	inventoryRepo inventorydomain.Repository
	audit         auditdomain.Service
	mtr           *metrics.Metrics

	mu       sync.Mutex
	sessions map[snowflake.ID]*domain.Session
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("importer.service"),
		genID:         p.GenID,
		holder:        p.Holder,
		inventoryRepo: p.InventoryRepo,
		audit:         p.Audit,
		mtr:           p.Metrics,
		sessions:      make(map[snowflake.ID]*domain.Session),
	}
}

func (s *Service) StartTabular(ctx context.Context, filename string, r io.Reader) (domain.Session, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Session{}, domain.ErrInvalidCompany
	}

	rows, err := tabular.Parse(filename, r)
	if err != nil {
		s.recordFailure(ctx, domain.SourceTabular, "parse")
		return domain.Session{}, err
	}

	candidates := tabular.ProjectInventory(rows)
	return s.open(ctx, companyID, domain.SourceTabular, filename, candidates, len(rows)-len(candidates))
}

func (s *Service) StartOCRText(ctx context.Context, text string) (domain.Session, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Session{}, domain.ErrInvalidCompany
	}

	lines := extract.InventoryLines(text)
	candidates := filterComplete(lines)
	return s.open(ctx, companyID, domain.SourceOCR, "", candidates, len(lines)-len(candidates))
}

func (s *Service) open(ctx context.Context, companyID snowflake.ID, source domain.Source, filename string, candidates []extract.InventoryCandidate, skipped int) (domain.Session, error) {
	if len(candidates) == 0 {
		s.recordFailure(ctx, source, "no_valid_records")
		return domain.Session{}, domain.ErrNoValidRecords
	}
	if max := s.holder.Get().MaxBatchSize; max > 0 && len(candidates) > max {
		s.recordFailure(ctx, source, "batch_too_large")
		return domain.Session{}, fmt.Errorf("%w: %d rows exceed limit %d", domain.ErrBatchTooLarge, len(candidates), max)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		Source:      source,
		State:       domain.StatePreviewing,
		FileName:    filename,
		Candidates:  candidates,
		SkippedRows: skipped,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.pruneLocked(now)
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.Info("import preview opened",
		zap.String("import_session_id", session.ID.String()),
		zap.String("source", string(source)),
		zap.Int("candidates", len(candidates)),
		zap.Int("skipped_rows", skipped),
	)

	return snapshot(session), nil
}

func (s *Service) Get(ctx context.Context, rawID string) (domain.Session, error) {
	session, err := s.lookup(ctx, rawID)
	if err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(session), nil
}

func (s *Service) UpdateCandidates(ctx context.Context, rawID string, candidates []extract.InventoryCandidate) (domain.Session, error) {
	session, err := s.lookup(ctx, rawID)
	if err != nil {
		return domain.Session{}, err
	}

	cleaned := filterComplete(trimCandidates(candidates))
	if len(cleaned) == 0 {
		return domain.Session{}, domain.ErrNoValidRecords
	}
	if max := s.holder.Get().MaxBatchSize; max > 0 && len(cleaned) > max {
		return domain.Session{}, fmt.Errorf("%w: %d rows exceed limit %d", domain.ErrBatchTooLarge, len(cleaned), max)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session.State != domain.StatePreviewing && session.State != domain.StateFailed {
		return domain.Session{}, domain.ErrInvalidState
	}
	session.Candidates = cleaned
	session.State = domain.StatePreviewing
	session.FailReason = ""
	session.UpdatedAt = time.Now().UTC()
	return snapshot(session), nil
}

func (s *Service) Confirm(ctx context.Context, rawID string) (domain.Session, error) {
	session, err := s.lookup(ctx, rawID)
	if err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	if session.State != domain.StatePreviewing && session.State != domain.StateFailed {
		s.mu.Unlock()
		return domain.Session{}, domain.ErrInvalidState
	}
	session.State = domain.StateCommitting
	session.FailReason = ""
	session.UpdatedAt = time.Now().UTC()
	candidates := append([]extract.InventoryCandidate(nil), session.Candidates...)
	companyID := session.CompanyID
	source := session.Source
	s.mu.Unlock()

	now := time.Now().UTC()
	items := make([]*inventorydomain.Item, 0, len(candidates))
	ids := make([]snowflake.ID, 0, len(candidates))
	for _, c := range candidates {
		id := s.genID.Generate()
		ids = append(ids, id)
		items = append(items, &inventorydomain.Item{
			ID:            id,
			CompanyID:     companyID,
			Vendor:        c.Vendor,
			Item:          c.Item,
			Type:          c.Type,
			MonthlyCharge: c.MonthlyCharge,
			Status:        c.Status,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.inventoryRepo.InsertBatch(ctx, tx, items)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		session.State = domain.StateFailed
		session.FailReason = err.Error()
		session.UpdatedAt = time.Now().UTC()
		s.recordFailure(ctx, source, "commit")
		s.log.Error("import commit failed",
			zap.String("import_session_id", session.ID.String()),
			zap.String("source", string(source)),
			zap.Error(err),
		)
		return snapshot(session), fmt.Errorf("commit import: %w", err)
	}

	session.State = domain.StateCommitted
	session.CommittedIDs = ids
	session.UpdatedAt = time.Now().UTC()

	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}
	s.audit.Record(ctx, auditEventType(source), map[string]any{
		"count": len(ids),
		"ids":   idStrings,
	}, auditdomain.RecordOptions{})

	if s.mtr != nil {
		s.mtr.RecordImportCommitted(ctx, string(source), len(ids))
	}
	s.log.Info("import committed",
		zap.String("import_session_id", session.ID.String()),
		zap.String("source", string(source)),
		zap.Int("records", len(ids)),
	)

	return snapshot(session), nil
}

func (s *Service) Cancel(ctx context.Context, rawID string) error {
	session, err := s.lookup(ctx, rawID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session.State == domain.StateCommitting {
		return domain.ErrInvalidState
	}
	delete(s.sessions, session.ID)
	return nil
}

func (s *Service) lookup(ctx context.Context, rawID string) (*domain.Session, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || session.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

func (s *Service) pruneLocked(now time.Time) {
	for id, session := range s.sessions {
		if session.State == domain.StateCommitting {
			continue
		}
		if now.Sub(session.UpdatedAt) > sessionTTL {
			delete(s.sessions, id)
		}
	}
}

func (s *Service) recordFailure(ctx context.Context, source domain.Source, reason string) {
	if s.mtr != nil {
		s.mtr.RecordImportFailure(ctx, string(source), reason)
	}
}

func auditEventType(source domain.Source) string {
	if source == domain.SourceOCR {
		return "inventory.ocrImport"
	}
	return "inventory.bulkImport"
}

func snapshot(session *domain.Session) domain.Session {
	out := *session
	out.Candidates = append([]extract.InventoryCandidate(nil), session.Candidates...)
	out.CommittedIDs = append([]snowflake.ID(nil), session.CommittedIDs...)
	return out
}

func filterComplete(candidates []extract.InventoryCandidate) []extract.InventoryCandidate {
	var out []extract.InventoryCandidate
	for _, c := range candidates {
		if !c.Complete() {
			continue
		}
		if c.Status == "" {
			c.Status = extract.DefaultInventoryStatus
		}
		out = append(out, c)
	}
	return out
}

func trimCandidates(candidates []extract.InventoryCandidate) []extract.InventoryCandidate {
	out := make([]extract.InventoryCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, extract.InventoryCandidate{
			Vendor:        strings.TrimSpace(c.Vendor),
			Item:          strings.TrimSpace(c.Item),
			Type:          strings.TrimSpace(c.Type),
			MonthlyCharge: strings.TrimSpace(c.MonthlyCharge),
			Status:        strings.TrimSpace(c.Status),
		})
	}
	return out
}
