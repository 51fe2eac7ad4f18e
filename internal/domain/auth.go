package domain

import (
	"context"
	"time"
)

// Session represents an active login of the owner.
type Session struct {
	Token     string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, token, userAgent string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}

// Preferences is the port for the small encrypted settings store. It is
// unrelated to weight data.
type Preferences interface {
	FirstNotificationShown(ctx context.Context) (bool, error)
	SetFirstNotificationShown(ctx context.Context, shown bool) error
	OwnerPasswordHash(ctx context.Context) (string, error)
	SetOwnerPasswordHash(ctx context.Context, hash string) error
}
