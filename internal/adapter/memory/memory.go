// Package memory implements in-memory storage for development and testing.
package memory

import (
	"context"
	"sync"
	"time"

	"weightress/internal/domain"
	"weightress/internal/store"
)

// DB implements an in-memory record store.
type DB struct {
	mu      sync.Mutex
	records []store.Record
	nextID  int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ store.Store = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// Insert appends a record with the next identifier.
func (db *DB) Insert(ctx context.Context, r store.Record) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.nextID++
	r.ID = db.nextID
	db.records = append(db.records, r)
	return nil
}

// GetAll returns a copy of every record, newest id first.
func (db *DB) GetAll(ctx context.Context) ([]store.Record, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	// records are appended with increasing ids, so reversing is enough
	out := make([]store.Record, 0, len(db.records))
	for i := len(db.records) - 1; i >= 0; i-- {
		out = append(out, db.records[i])
	}
	return out, nil
}

// SessionRepo implements session persistence in memory.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

// NewSessionRepo creates an empty session repository.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*domain.Session)}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, token, userAgent string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[token] = &domain.Session{
		Token:     token,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token. A missing session is (nil, nil).
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for k, v := range r.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.sessions, k)
		}
	}
	return nil
}
