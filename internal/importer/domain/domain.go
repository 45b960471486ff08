package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/ntemspark/telm/internal/extract"
)

type Source string

const (
	SourceTabular Source = "tabular"
	SourceOCR     Source = "ocr"
)

type State string

const (
	StatePreviewing State = "previewing"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
	StateFailed     State = "failed"
)

// Session is one preview-confirm-commit cycle. Candidates hold the rows
// the user is reviewing; they survive a failed commit so the batch can be
// retried without re-uploading.
type Session struct {
	ID           snowflake.ID                 `json:"id"`
	CompanyID    snowflake.ID                 `json:"company_id"`
	Source       Source                       `json:"source"`
	State        State                        `json:"state"`
	FileName     string                       `json:"file_name,omitempty"`
	Candidates   []extract.InventoryCandidate `json:"candidates"`
	SkippedRows  int                          `json:"skipped_rows"`
	FailReason   string                       `json:"fail_reason,omitempty"`
	CommittedIDs []snowflake.ID               `json:"committed_ids,omitempty"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

type Service interface {
	// StartTabular parses an uploaded spreadsheet, filters non-viable
	// rows and opens a previewing session.
	StartTabular(ctx context.Context, filename string, r io.Reader) (Session, error)
	// StartOCRText extracts inventory candidates from recognized text
	// and opens a previewing session.
	StartOCRText(ctx context.Context, text string) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	// UpdateCandidates replaces the preview after user edits. A failed
	// session returns to previewing.
	UpdateCandidates(ctx context.Context, id string, candidates []extract.InventoryCandidate) (Session, error)
	// Confirm writes every candidate or none. Exactly one audit event
	// is recorded per committed batch.
	Confirm(ctx context.Context, id string) (Session, error)
	Cancel(ctx context.Context, id string) error
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
	ErrNoValidRecords = errors.New("no_valid_records")
	ErrInvalidState   = errors.New("invalid_state")
	ErrBatchTooLarge  = errors.New("batch_too_large")
)
