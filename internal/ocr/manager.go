package ocr

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ntemspark/telm/internal/config"
	"github.com/ntemspark/telm/internal/observability/metrics"
)

// sessionTTL bounds how long an untouched session survives; clients that
// close the dialog without deleting would otherwise leak sessions.
const sessionTTL = time.Hour

// Manager hands out recognition sessions keyed by ID so HTTP callers can
// poll progress across requests.
type Manager struct {
	engine Engine
	holder *config.ExtractionHolder
	mtr    *metrics.Metrics
	log    *zap.Logger
	genID  *snowflake.Node

	mu       sync.Mutex
	sessions map[snowflake.ID]*managerEntry
}

type managerEntry struct {
	sess     *Session
	lastSeen time.Time
}

type ManagerParams struct {
	fx.In

	Engine  Engine
	Holder  *config.ExtractionHolder
	Log     *zap.Logger
	GenID   *snowflake.Node
	Metrics *metrics.Metrics `optional:"true"`
}

func NewManager(p ManagerParams) *Manager {
	return &Manager{
		engine:   p.Engine,
		holder:   p.Holder,
		mtr:      p.Metrics,
		log:      p.Log,
		genID:    p.GenID,
		sessions: make(map[snowflake.ID]*managerEntry),
	}
}

func (m *Manager) Create() (snowflake.ID, *Session) {
	id := m.genID.Generate()
	sess := NewSession(m.engine, m.holder, m.log.With(zap.String("ocr_session_id", id.String())), m.mtr)

	now := time.Now()
	m.mu.Lock()
	stale := m.pruneLocked(now)
	m.sessions[id] = &managerEntry{sess: sess, lastSeen: now}
	m.mu.Unlock()

	for _, old := range stale {
		old.Reset()
	}
	return id, sess
}

func (m *Manager) Get(id snowflake.ID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.sess, true
}

// Delete invalidates any in-flight attempt and removes the session.
func (m *Manager) Delete(id snowflake.ID) {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		entry.sess.Reset()
	}
}

func (m *Manager) pruneLocked(now time.Time) []*Session {
	var stale []*Session
	for id, entry := range m.sessions {
		if entry.sess.Snapshot().State == StateRunning {
			continue
		}
		if now.Sub(entry.lastSeen) > sessionTTL {
			stale = append(stale, entry.sess)
			delete(m.sessions, id)
		}
	}
	return stale
}
