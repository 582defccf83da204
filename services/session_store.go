// services/session_store.go
package services

import (
	"log"
	"sync"
	"time"

	"trivia-chat-server/models"

	"github.com/google/uuid"
)

// DefaultMaxIdle is how long a session may sit untouched before the sweeper
// evicts it. The sweep itself runs on the same cadence.
const DefaultMaxIdle = time.Hour

// SessionStore owns every live GameSession. All access goes through it; no
// other component holds a session across requests. The store lock only
// guards the map. Callers lock the individual session for the duration of
// a request, so slow work (the generation call) never blocks other players.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.GameSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*models.GameSession)}
}

// Create registers a brand-new session under a fresh opaque id. Ids are
// never reused: once deleted, an id is gone for good.
func (st *SessionStore) Create() *models.GameSession {
	session := models.NewGameSession(uuid.NewString())

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	log.Printf("Created session %s", session.ID)
	return session
}

// Resolve looks up a session by id.
func (st *SessionStore) Resolve(id string) (*models.GameSession, bool) {
	if id == "" {
		return nil, false
	}
	st.mu.RLock()
	session, ok := st.sessions[id]
	st.mu.RUnlock()
	return session, ok
}

// Touch refreshes a session's idle clock.
func (st *SessionStore) Touch(id string) {
	if session, ok := st.Resolve(id); ok {
		session.Touch()
	}
}

// Delete removes a session permanently.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
	log.Printf("Deleted session %s", id)
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// SweepExpired evicts every session idle for longer than maxIdle and returns
// how many were removed. Expiry is read from an atomic timestamp, so the
// sweep never has to wait on a session that is mid-request.
func (st *SessionStore) SweepExpired(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, session := range st.sessions {
		if session.LastActive().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("🧹 Swept %d expired session(s), %d remaining", removed, len(st.sessions))
	}
	return removed
}
