package httpapi

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// ErrSessionNotFound signals an unknown or expired upload session
var ErrSessionNotFound = errors.New("session not found or expired")

// Session holds one uploaded portfolio for the duration of its TTL.
// The parsed data is immutable after upload; every dashboard request
// recomputes the derived views from it.
type Session struct {
	ID           uuid.UUID
	Transactions []domain.Transaction
	Watchlist    []domain.WatchlistEntry
	CreatedAt    time.Time
}

// SessionStore keeps upload sessions in an expiring in-memory cache.
// Persistence beyond a session is deliberately out of scope.
type SessionStore struct {
	sessions *cache.Cache
}

// NewSessionStore creates a store whose sessions expire after ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{sessions: cache.New(ttl, 2*ttl)}
}

// Put stores a session under its ID
func (s *SessionStore) Put(session *Session) {
	s.sessions.SetDefault(session.ID.String(), session)
}

// Get retrieves a session by ID
func (s *SessionStore) Get(id uuid.UUID) (*Session, error) {
	cached, ok := s.sessions.Get(id.String())
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cached.(*Session), nil
}
