package ocr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ntemspark/telm/internal/config"
)

// scriptedEngine resolves each image by the tag appended after the PNG
// magic, optionally blocking until the tag's gate is closed.
type scriptedEngine struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	texts map[string]string
	errs  map[string]error
}

func newScriptedEngine() *scriptedEngine {
	return &scriptedEngine{
		gates: make(map[string]chan struct{}),
		texts: make(map[string]string),
		errs:  make(map[string]error),
	}
}

func (e *scriptedEngine) block(tag string) chan struct{} {
	gate := make(chan struct{})
	e.mu.Lock()
	e.gates[tag] = gate
	e.mu.Unlock()
	return gate
}

func (e *scriptedEngine) Recognize(ctx context.Context, image []byte, progress func(int)) (string, error) {
	tag := string(image[len(pngMagic):])

	e.mu.Lock()
	gate := e.gates[tag]
	text := e.texts[tag]
	err := e.errs[tag]
	e.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if progress != nil {
		progress(50)
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func newTestSession(eng Engine) *Session {
	return NewSession(eng, testHolder(), zap.NewNop(), nil)
}

func TestSessionCompletes(t *testing.T) {
	eng := newScriptedEngine()
	eng.texts["one"] = "Vendor: Acme Corp"

	s := newTestSession(eng)
	attempt, err := s.Start(context.Background(), pngBytes("one"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), attempt)

	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, StateComplete, snap.State)
	assert.Equal(t, 100, snap.Progress)
	assert.Equal(t, "Vendor: Acme Corp", snap.Text)
	assert.Empty(t, snap.Reason)
}

func TestSessionRejectsNonImage(t *testing.T) {
	s := newTestSession(newScriptedEngine())

	_, err := s.Start(context.Background(), []byte("%PDF-1.7"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = s.Start(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	// no attempt consumed, session untouched
	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, uint64(0), snap.Attempt)
}

func TestSessionFailure(t *testing.T) {
	eng := newScriptedEngine()
	eng.errs["bad"] = errors.New("tesseract: exit status 1")

	s := newTestSession(eng)
	_, err := s.Start(context.Background(), pngBytes("bad"))
	require.NoError(t, err)

	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Contains(t, snap.Reason, "exit status 1")
	assert.Empty(t, snap.Text)
}

func TestSessionTimeout(t *testing.T) {
	eng := newScriptedEngine()
	gate := eng.block("slow")
	defer close(gate)

	s := NewSession(eng, shortTimeoutHolder(20*time.Millisecond), zap.NewNop(), nil)
	_, err := s.Start(context.Background(), pngBytes("slow"))
	require.NoError(t, err)

	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, "recognition timed out", snap.Reason)
}

func TestSessionStaleAttemptDropped(t *testing.T) {
	eng := newScriptedEngine()
	gate := eng.block("slow")
	eng.texts["slow"] = "stale text"
	eng.texts["fast"] = "fresh text"

	s := newTestSession(eng)

	first, err := s.Start(context.Background(), pngBytes("slow"))
	require.NoError(t, err)

	second, err := s.Start(context.Background(), pngBytes("fast"))
	require.NoError(t, err)
	assert.Greater(t, second, first)

	require.Eventually(t, func() bool {
		return s.Snapshot().State == StateComplete
	}, time.Second, 5*time.Millisecond)

	// let the first attempt resolve late; its result must be ignored
	close(gate)
	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, StateComplete, snap.State)
	assert.Equal(t, "fresh text", snap.Text)
	assert.Equal(t, second, snap.Attempt)
}

func TestSessionResetDiscardsInFlight(t *testing.T) {
	eng := newScriptedEngine()
	gate := eng.block("slow")
	eng.texts["slow"] = "late text"

	s := newTestSession(eng)
	_, err := s.Start(context.Background(), pngBytes("slow"))
	require.NoError(t, err)

	s.Reset()
	close(gate)
	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Text)
	assert.Equal(t, 0, snap.Progress)
}

func shortTimeoutHolder(d time.Duration) *config.ExtractionHolder {
	h := &config.ExtractionHolder{}
	cfg := config.DefaultExtractionConfig()
	cfg.Timeout = d
	h.Store(cfg)
	return h
}
