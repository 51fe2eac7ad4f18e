package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	prefsstore "weightress/internal/adapter/prefs"
	"weightress/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockPrefs struct {
	hash    string
	hashErr error
	shown   bool
}

func (m *mockPrefs) FirstNotificationShown(ctx context.Context) (bool, error) {
	return m.shown, nil
}

func (m *mockPrefs) SetFirstNotificationShown(ctx context.Context, shown bool) error {
	m.shown = shown
	return nil
}

func (m *mockPrefs) OwnerPasswordHash(ctx context.Context) (string, error) {
	return m.hash, m.hashErr
}

func (m *mockPrefs) SetOwnerPasswordHash(ctx context.Context, hash string) error {
	m.hash = hash
	return nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, token, userAgent string, expiresAt time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, token, userAgent string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, token, userAgent, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestAuthService_Setup(t *testing.T) {
	ctx := context.Background()
	prefs := &mockPrefs{}
	svc := NewAuthService(prefs, &mockSessionRepo{}, time.Hour)

	required, err := svc.SetupRequired(ctx)
	if err != nil || !required {
		t.Fatalf("expected setup required, got %v %v", required, err)
	}

	if err := svc.Setup(ctx, "password123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(prefs.hash), []byte("password123")) != nil {
		t.Fatal("stored hash does not match password")
	}

	if err := svc.Setup(ctx, "other"); !errors.Is(err, ErrSetupDone) {
		t.Fatalf("expected ErrSetupDone, got %v", err)
	}
}

func TestAuthService_Setup_Concurrent(t *testing.T) {
	ctx := context.Background()
	store, err := prefsstore.Open(filepath.Join(t.TempDir(), "prefs.db"), "s3cret")
	if err != nil {
		t.Fatalf("open prefs: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc := NewAuthService(store, &mockSessionRepo{}, time.Hour)

	passwords := []string{"alice-pw", "mallory-pw"}
	errs := make([]error, len(passwords))
	var wg sync.WaitGroup
	for i, pw := range passwords {
		wg.Add(1)
		go func(i int, pw string) {
			defer wg.Done()
			errs[i] = svc.Setup(ctx, pw)
		}(i, pw)
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		switch {
		case err == nil:
			if winner != -1 {
				t.Fatal("both setups succeeded")
			}
			winner = i
		case !errors.Is(err, ErrSetupDone):
			t.Fatalf("setup %d: expected ErrSetupDone, got %v", i, err)
		}
	}
	if winner == -1 {
		t.Fatal("no setup succeeded")
	}

	if _, err := svc.Login(ctx, passwords[winner], "ua"); err != nil {
		t.Fatalf("winning password rejected: %v", err)
	}
	if _, err := svc.Login(ctx, passwords[1-winner], "ua"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("losing password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Setup_EmptyPassword(t *testing.T) {
	svc := NewAuthService(&mockPrefs{}, &mockSessionRepo{}, time.Hour)
	if err := svc.Setup(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	password := "testpass123"

	var created time.Time
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, token, userAgent string, expiresAt time.Time) error {
			if token == "" {
				t.Error("token should not be empty")
			}
			if userAgent != "curl" {
				t.Errorf("expected user agent curl, got %q", userAgent)
			}
			created = expiresAt
			return nil
		},
	}

	svc := NewAuthService(&mockPrefs{hash: hashFor(t, password)}, sessions, 2*time.Hour)
	token, err := svc.Login(ctx, password, "curl")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token, got empty string")
	}
	if d := time.Until(created); d < time.Hour || d > 2*time.Hour {
		t.Errorf("unexpected session expiry in %v", d)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := NewAuthService(&mockPrefs{hash: hashFor(t, "correctpass")}, &mockSessionRepo{}, time.Hour)

	_, err := svc.Login(context.Background(), "wrongpass", "curl")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_BeforeSetup(t *testing.T) {
	svc := NewAuthService(&mockPrefs{}, &mockSessionRepo{}, time.Hour)
	_, err := svc.Login(context.Background(), "anything", "curl")
	if !errors.Is(err, ErrSetupRequired) {
		t.Errorf("expected ErrSetupRequired, got %v", err)
	}
}

func TestAuthService_Login_PrefsError(t *testing.T) {
	prefsErr := errors.New("locked")
	svc := NewAuthService(&mockPrefs{hashErr: prefsErr}, &mockSessionRepo{}, time.Hour)
	if _, err := svc.Login(context.Background(), "x", "curl"); !errors.Is(err, prefsErr) {
		t.Errorf("expected prefs error, got %v", err)
	}
}

func TestAuthService_ValidateSession_Valid(t *testing.T) {
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{
				Token:     tok,
				UserAgent: "firefox",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}

	svc := NewAuthService(&mockPrefs{}, sessions, time.Hour)
	if err := svc.ValidateSession(context.Background(), "validtoken", "firefox"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestAuthService_ValidateSession_Missing(t *testing.T) {
	svc := NewAuthService(&mockPrefs{}, &mockSessionRepo{}, time.Hour)
	err := svc.ValidateSession(context.Background(), "nope", "firefox")
	if err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_ValidateSession_Expired(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{
				Token:     tok,
				UserAgent: "firefox",
				ExpiresAt: time.Now().Add(-1 * time.Hour),
			}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}

	svc := NewAuthService(&mockPrefs{}, sessions, time.Hour)
	err := svc.ValidateSession(context.Background(), "expiredtoken", "firefox")
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected session to be deleted")
	}
}

func TestAuthService_ValidateSession_OtherUserAgent(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{Token: tok, UserAgent: "firefox", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}

	svc := NewAuthService(&mockPrefs{}, sessions, time.Hour)
	if err := svc.ValidateSession(context.Background(), "tok", "curl"); err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected hijacked session to be deleted")
	}
}

func TestAuthService_LoginSSO(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(&mockPrefs{}, &mockSessionRepo{}, time.Hour).WithSSOEmail("owner@example.com")

	token, err := svc.LoginSSO(ctx, "Owner@Example.com", "firefox")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token")
	}

	if _, err := svc.LoginSSO(ctx, "intruder@example.com", "firefox"); !errors.Is(err, ErrSSONotAllowed) {
		t.Errorf("expected ErrSSONotAllowed, got %v", err)
	}
}

func TestAuthService_LoginSSO_NotConfigured(t *testing.T) {
	svc := NewAuthService(&mockPrefs{}, &mockSessionRepo{}, time.Hour)
	if _, err := svc.LoginSSO(context.Background(), "", "firefox"); !errors.Is(err, ErrSSONotAllowed) {
		t.Errorf("expected ErrSSONotAllowed, got %v", err)
	}
}
