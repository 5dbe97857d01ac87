package repository

import (
	"context"
	"time"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

// SessionRepository owns the session id -> dialogue state mapping.
// Implementations must be safe under concurrent read/insert/delete;
// turns for different sessions must not block each other.
type SessionRepository interface {
	// GetOrCreate returns the session for id, creating a fresh one
	// (with a generated id) when id is empty or unknown.
	GetOrCreate(ctx context.Context, id string) (string, *entity.Session, error)

	// Get returns the session for id if it exists.
	Get(ctx context.Context, id string) (*entity.Session, bool)

	// Reset deletes the session's profile and history. Returns false
	// when no such session exists; it never creates one.
	Reset(ctx context.Context, id string) bool

	// Count returns the number of live sessions.
	Count(ctx context.Context) int

	// ClearAll drops every session.
	ClearAll(ctx context.Context)

	// PruneIdle deletes sessions idle for longer than maxIdle and
	// returns how many were removed. Sessions with a turn in flight
	// are skipped.
	PruneIdle(ctx context.Context, maxIdle time.Duration) int
}
