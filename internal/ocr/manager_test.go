package ocr

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewManager(ManagerParams{
		Engine: newScriptedEngine(),
		Holder: testHolder(),
		Log:    zap.NewNop(),
		GenID:  node,
	})
}

func TestManagerLifecycle(t *testing.T) {
	m := newTestManager(t)

	id, sess := m.Create()
	require.NotNil(t, sess)

	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Same(t, sess, got)

	m.Delete(id)
	_, ok = m.Get(id)
	assert.False(t, ok)
	assert.Equal(t, StateIdle, sess.Snapshot().State)
}

func TestManagerPrunesAbandonedSessions(t *testing.T) {
	m := newTestManager(t)

	oldID, oldSess := m.Create()
	m.mu.Lock()
	m.sessions[oldID].lastSeen = time.Now().Add(-2 * sessionTTL)
	m.mu.Unlock()

	_, fresh := m.Create()
	require.NotNil(t, fresh)

	_, ok := m.Get(oldID)
	assert.False(t, ok)
	assert.Equal(t, StateIdle, oldSess.Snapshot().State)
}

func TestManagerKeepsRunningSessionPastTTL(t *testing.T) {
	m := newTestManager(t)
	eng := m.engine.(*scriptedEngine)
	gate := eng.block("slow")

	id, sess := m.Create()
	_, err := sess.Start(context.Background(), pngBytes("slow"))
	require.NoError(t, err)

	m.mu.Lock()
	m.sessions[id].lastSeen = time.Now().Add(-2 * sessionTTL)
	m.mu.Unlock()

	m.Create()

	_, ok := m.Get(id)
	assert.True(t, ok)

	close(gate)
	sess.Wait()
}
