package entity

import (
	"sync"
	"time"
)

// Turn roles used in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TurnRecord is one utterance in the conversation history.
type TurnRecord struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is a single shopper's ongoing dialogue: the ordered turn
// history plus exactly one profile. A session id, once created, maps to
// this pair for the lifetime of the process.
type Session struct {
	ID       string          `json:"id"`
	History  []TurnRecord    `json:"history"`
	Profile  *ShopperProfile `json:"profile"`
	LastUsed time.Time       `json:"last_used"`

	mu sync.Mutex
}

// NewSession returns an empty session with a fresh profile.
func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		Profile:  NewShopperProfile(),
		LastUsed: time.Now(),
	}
}

// Lock serializes turns for this session. Two concurrent turns for the
// same session must not interleave their read-modify-write of profile
// and history.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Append adds a turn to the history and trims it to maxTurns (0 = no
// limit), keeping the most recent records.
func (s *Session) Append(role, text string, maxTurns int) {
	s.History = append(s.History, TurnRecord{Role: role, Text: text})
	if maxTurns > 0 && len(s.History) > maxTurns {
		s.History = s.History[len(s.History)-maxTurns:]
	}
	s.LastUsed = time.Now()
}

// IdleFor reports how long the session has been idle. ok is false when
// a turn is currently in flight; such a session is never idle.
func (s *Session) IdleFor(now time.Time) (time.Duration, bool) {
	if !s.mu.TryLock() {
		return 0, false
	}
	defer s.mu.Unlock()
	return now.Sub(s.LastUsed), true
}

// HistoryCopy returns a defensive copy so callers can safely iterate
// without holding the session lock.
func (s *Session) HistoryCopy() []TurnRecord {
	out := make([]TurnRecord, len(s.History))
	copy(out, s.History)
	return out
}
