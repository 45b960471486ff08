package ocr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ntemspark/telm/internal/config"
	"github.com/ntemspark/telm/internal/observability/metrics"
)

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateFailed   State = "failed"
)

// Snapshot is a point-in-time view of a recognition session.
type Snapshot struct {
	State    State  `json:"state"`
	Progress int    `json:"progress"`
	Text     string `json:"text,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Attempt  uint64 `json:"attempt"`
}

// Session runs recognition attempts one image at a time. Each Start bumps a
// generation counter; a completion that arrives after a newer Start or a
// Reset is dropped so only the latest attempt ever updates visible state.
type Session struct {
	engine Engine
	holder *config.ExtractionHolder
	mtr    *metrics.Metrics
	log    *zap.Logger

	attempt atomic.Uint64
	pending sync.WaitGroup

	mu       sync.Mutex
	state    State
	progress int
	text     string
	reason   string
}

func NewSession(engine Engine, holder *config.ExtractionHolder, log *zap.Logger, mtr *metrics.Metrics) *Session {
	return &Session{
		engine: engine,
		holder: holder,
		mtr:    mtr,
		log:    log,
		state:  StateIdle,
	}
}

// Start validates the image synchronously and kicks off recognition in the
// background. Validation failures are returned immediately and leave the
// session untouched; no attempt is consumed.
func (s *Session) Start(ctx context.Context, image []byte) (uint64, error) {
	cfg := s.holder.Get()
	if len(image) == 0 {
		return 0, ErrEmptyImage
	}
	if cfg.MaxImageBytes > 0 && int64(len(image)) > cfg.MaxImageBytes {
		return 0, ErrImageTooLarge
	}
	if _, ok := SniffImageFormat(image); !ok {
		return 0, ErrUnsupportedImage
	}

	attempt := s.attempt.Add(1)

	s.mu.Lock()
	s.state = StateRunning
	s.progress = 0
	s.text = ""
	s.reason = ""
	s.mu.Unlock()

	// Recognition outlives the upload request.
	run := context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		rctx, cancel := context.WithTimeout(run, cfg.Timeout)
		defer cancel()

		text, err := s.engine.Recognize(rctx, image, func(pct int) {
			s.setProgress(attempt, pct)
		})
		s.finish(run, attempt, text, err)
	}()

	return attempt, nil
}

// Reset returns the session to idle and invalidates any in-flight attempt.
func (s *Session) Reset() {
	s.attempt.Add(1)

	s.mu.Lock()
	s.state = StateIdle
	s.progress = 0
	s.text = ""
	s.reason = ""
	s.mu.Unlock()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:    s.state,
		Progress: s.progress,
		Text:     s.text,
		Reason:   s.reason,
		Attempt:  s.attempt.Load(),
	}
}

// Wait blocks until all in-flight attempts have resolved. Stale attempts
// still resolve; their results are simply dropped.
func (s *Session) Wait() {
	s.pending.Wait()
}

func (s *Session) setProgress(attempt uint64, pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt != s.attempt.Load() || s.state != StateRunning {
		return
	}
	s.progress = pct
}

func (s *Session) finish(ctx context.Context, attempt uint64, text string, err error) {
	s.mu.Lock()
	if attempt != s.attempt.Load() {
		s.mu.Unlock()
		s.log.Debug("dropping stale recognition result", zap.Uint64("attempt", attempt))
		if s.mtr != nil {
			s.mtr.RecordOCRJob(ctx, "stale")
		}
		return
	}

	if err != nil {
		s.state = StateFailed
		s.reason = failureReason(err)
	} else {
		s.state = StateComplete
		s.progress = 100
		s.text = text
	}
	outcome := string(s.state)
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("recognition failed", zap.Uint64("attempt", attempt), zap.Error(err))
	} else {
		s.log.Info("recognition complete", zap.Uint64("attempt", attempt), zap.Int("text_bytes", len(text)))
	}
	if s.mtr != nil {
		s.mtr.RecordOCRJob(ctx, outcome)
	}
}

func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "recognition timed out"
	}
	return err.Error()
}
