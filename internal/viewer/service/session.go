package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"planviewer/internal/viewer/controller"
	"planviewer/internal/viewer/engine"
	"planviewer/internal/viewer/models"
)

// ============================================================
// Session Manager
// ============================================================

// Session is one independent viewing session: its own viewer, selection
// and camera. All access goes through the session lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	viewer  *engine.Viewer
	version int
}

func (s *Session) Render() engine.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer.Render()
}

// Dispatch applies an intent and reports whether a new plan was committed.
func (s *Session) Dispatch(in engine.Intent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer.Dispatch(in)
}

func (s *Session) Plan() (models.PlanDocument, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer.Plan(), s.version
}

// Status returns the plan version and controller state under one lock.
func (s *Session) Status() (int, controller.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, s.viewer.Snapshot()
}

// SetPlan replaces the plan wholesale and bumps the version.
func (s *Session) SetPlan(plan models.PlanDocument) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer.SetPlan(plan)
	s.version++
	return s.version
}

// View is a locked snapshot of the session for clients.
type View struct {
	ID        string       `json:"id"`
	Version   int          `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
	Frame     engine.Frame `json:"frame"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{ID: s.ID, Version: s.version, CreatedAt: s.CreatedAt, Frame: s.viewer.Render()}
}

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     []engine.Option
}

// NewSessionManager creates sessions whose viewers all get opts.
func NewSessionManager(opts ...engine.Option) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

func (m *SessionManager) Create(plan models.PlanDocument) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	// committed edits bump the version; the session lock is held by Dispatch
	s.viewer = engine.New(plan, func(models.PlanDocument) { s.version++ }, m.opts...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
