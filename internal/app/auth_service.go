// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"weightress/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided password was incorrect.
	ErrInvalidCredentials = errors.New("invalid password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrSetupDone indicates that the owner password has already been set.
	ErrSetupDone = errors.New("owner already set up")
	// ErrSetupRequired indicates that no owner password exists yet.
	ErrSetupRequired = errors.New("owner password not set")
	// ErrSSONotAllowed indicates an SSO identity other than the owner's.
	ErrSSONotAllowed = errors.New("sso identity not allowed")
)

// AuthService guards the single owner's access with a password or SSO.
type AuthService struct {
	prefs        domain.Preferences
	sessions     domain.SessionRepository
	ttl          time.Duration
	allowedEmail string

	// setupMu makes the unset check and the hash write in Setup one step.
	setupMu sync.Mutex
}

// NewAuthService creates a new authentication service. Sessions live for ttl.
func NewAuthService(prefs domain.Preferences, sessions domain.SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{prefs: prefs, sessions: sessions, ttl: ttl}
}

// WithSSOEmail sets the only identity LoginSSO accepts.
func (s *AuthService) WithSSOEmail(email string) *AuthService {
	s.allowedEmail = strings.TrimSpace(email)
	return s
}

// SessionTTL returns how long issued sessions stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// SetupRequired reports whether no owner password has been stored yet.
func (s *AuthService) SetupRequired(ctx context.Context) (bool, error) {
	hash, err := s.prefs.OwnerPasswordHash(ctx)
	if err != nil {
		return false, err
	}
	return hash == "", nil
}

// Setup stores the owner password. It only succeeds once.
func (s *AuthService) Setup(ctx context.Context, password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	s.setupMu.Lock()
	defer s.setupMu.Unlock()

	required, err := s.SetupRequired(ctx)
	if err != nil {
		return err
	}
	if !required {
		return ErrSetupDone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.prefs.SetOwnerPasswordHash(ctx, string(hash))
}

// Login checks the owner password and creates a session bound to userAgent.
func (s *AuthService) Login(ctx context.Context, password, userAgent string) (string, error) {
	hash, err := s.prefs.OwnerPasswordHash(ctx)
	if err != nil {
		return "", err
	}
	if hash == "" {
		return "", ErrSetupRequired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.newSession(ctx, userAgent)
}

// LoginSSO creates a session for an identity already verified by the
// identity provider, provided it is the configured owner.
func (s *AuthService) LoginSSO(ctx context.Context, email, userAgent string) (string, error) {
	if s.allowedEmail == "" || !strings.EqualFold(email, s.allowedEmail) {
		return "", ErrSSONotAllowed
	}
	return s.newSession(ctx, userAgent)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks that token names a live session created by the
// same user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) error {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return ErrSessionExpired
	}

	if !ConstantTimeCompare(session.UserAgent, userAgent) {
		_ = s.sessions.Delete(ctx, token)
		return ErrSessionExpired
	}
	return nil
}

// PurgeExpired removes sessions past their expiry.
func (s *AuthService) PurgeExpired(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

func (s *AuthService) newSession(ctx context.Context, userAgent string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, token, userAgent, time.Now().Add(s.ttl)); err != nil {
		return "", err
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
