// Package session holds the per-browser-session mutable state: the current
// answer engine handle, the extracted-text preview, and the last status
// shown to the user. Sessions are independent; nothing is shared between
// them and nothing survives the process.
package session

import (
	"sync"

	"github.com/google/uuid"

	"pdf-chat/internal/engine"
)

// Session is the state owned by one browser session. Mu serializes the
// actions of that session so each one runs to completion before the next.
type Session struct {
	Mu sync.Mutex

	// Engine is nil until a document set has been processed successfully.
	Engine  *engine.Engine
	Preview string
	Status  string
	Warning string
}

// Ready reports whether questions can be asked.
func (s *Session) Ready() bool {
	return s.Engine != nil
}

// Manager tracks live sessions by id.
type Manager struct {
	mtx      sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: map[string]*Session{}}
}

// Get returns the session for id, creating it on first contact. An empty or
// unknown id yields a fresh session under a new id.
func (m *Manager) Get(id string) (string, *Session) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return id, s
		}
	}

	id = uuid.NewString()
	s := &Session{}
	m.sessions[id] = s
	return id, s
}

// Delete ends a session and discards its state.
func (m *Manager) Delete(id string) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	delete(m.sessions, id)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.sessions)
}
