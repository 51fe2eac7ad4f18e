package prefs

import (
	"context"

	"weightress/internal/domain"
)

const (
	keyFirstNotificationShown = "fns"
	keyOwnerPasswordHash      = "owner_password_hash"
)

var _ domain.Preferences = (*Store)(nil)

// FirstNotificationShown reports whether a reminder has ever been delivered.
// An unset flag reads as false.
func (s *Store) FirstNotificationShown(ctx context.Context) (bool, error) {
	v, ok, err := s.Get(keyFirstNotificationShown)
	if err != nil || !ok {
		return false, err
	}
	return string(v) == "1", nil
}

// SetFirstNotificationShown records whether a reminder has been delivered.
func (s *Store) SetFirstNotificationShown(ctx context.Context, shown bool) error {
	v := "0"
	if shown {
		v = "1"
	}
	return s.Put(keyFirstNotificationShown, []byte(v))
}

// OwnerPasswordHash returns the stored bcrypt hash, or "" when unset.
func (s *Store) OwnerPasswordHash(ctx context.Context) (string, error) {
	v, _, err := s.Get(keyOwnerPasswordHash)
	return string(v), err
}

// SetOwnerPasswordHash stores the owner's bcrypt hash.
func (s *Store) SetOwnerPasswordHash(ctx context.Context, hash string) error {
	return s.Put(keyOwnerPasswordHash, []byte(hash))
}
