package storage

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/shopping-assistant/internal/domain/entity"
	"github.com/yourusername/shopping-assistant/internal/domain/repository"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewMemorySessionRepository creates an in-memory session repository.
// Sessions live for the lifetime of the process only.
func NewMemorySessionRepository() repository.SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

// GetOrCreate returns the existing session for id, or creates a fresh
// one. An empty or unknown id yields a newly generated unique id, so a
// session id once handed out always maps to exactly one profile and
// one history.
func (m *memorySessionRepository) GetOrCreate(ctx context.Context, id string) (string, *entity.Session, error) {
	if id != "" {
		m.mu.RLock()
		session, exists := m.sessions[id]
		m.mu.RUnlock()
		if exists {
			return id, session, nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the write lock: another turn may have created it.
	if id != "" {
		if session, exists := m.sessions[id]; exists {
			return id, session, nil
		}
	}

	newID := id
	if newID == "" {
		newID = uuid.New().String()
	}
	session := entity.NewSession(newID)
	m.sessions[newID] = session
	return newID, session, nil
}

// Get returns the session for id if it exists.
func (m *memorySessionRepository) Get(ctx context.Context, id string) (*entity.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	return session, exists
}

// Reset deletes the session's profile and history. Reports absence
// instead of failing; it never creates a session.
func (m *memorySessionRepository) Reset(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Count returns the number of live sessions.
func (m *memorySessionRepository) Count(ctx context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// ClearAll drops every session.
func (m *memorySessionRepository) ClearAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = make(map[string]*entity.Session)
}

// PruneIdle deletes sessions whose last turn is older than maxIdle.
// A session with a turn in flight reports as busy and is skipped.
func (m *memorySessionRepository) PruneIdle(ctx context.Context, maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	pruned := 0
	for id, session := range m.sessions {
		idle, ok := session.IdleFor(now)
		if ok && idle > maxIdle {
			delete(m.sessions, id)
			pruned++
		}
	}
	return pruned
}

const (
	sessionIdleTimeout     = 30 * time.Minute
	sessionCleanupInterval = 10 * time.Minute
)

// RunIdleSessionCleanup periodically prunes idle sessions until the
// context is cancelled, so the session map does not grow without bound.
func RunIdleSessionCleanup(ctx context.Context, repo repository.SessionRepository) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := repo.PruneIdle(ctx, sessionIdleTimeout); pruned > 0 {
				log.Printf("pruned %d idle sessions", pruned)
			}
		}
	}
}
