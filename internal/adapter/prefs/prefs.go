// Package prefs implements the encrypted preferences store on a bbolt file.
//
// Key names are stored as keyed BLAKE2b digests and values are sealed with
// XChaCha20-Poly1305, the digest being bound as additional data so a value
// cannot be moved under another key. Both subkeys come from an argon2id key
// over the configured secret and a random per-file salt.
package prefs

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	bucketPrefs = "prefs"
	bucketMeta  = "meta"

	metaSalt  = "salt"
	metaCheck = "check"

	checkPlaintext = "weightress"
	hkdfInfo       = "weightress prefs v1"
)

var (
	// ErrWrongSecret is returned by Open when the file was created with a
	// different secret.
	ErrWrongSecret = errors.New("prefs: wrong secret")
	// ErrCorrupt is returned when a stored value fails authentication.
	ErrCorrupt = errors.New("prefs: value failed authentication")
)

// Store is an encrypted key-value store.
type Store struct {
	db      *bbolt.DB
	nameKey []byte
	aead    cipher.AEAD
}

// Open opens or creates the preferences file at path, sealed with secret.
func Open(path, secret string) (*Store, error) {
	if secret == "" {
		return nil, errors.New("prefs: secret is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create prefs dir: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(secret); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(secret string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketPrefs)); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		if err != nil {
			return err
		}

		salt := meta.Get([]byte(metaSalt))
		if salt == nil {
			salt = make([]byte, 16)
			if _, err := rand.Read(salt); err != nil {
				return fmt.Errorf("generate salt: %w", err)
			}
			if err := meta.Put([]byte(metaSalt), salt); err != nil {
				return err
			}
		}
		if err := s.deriveKeys(secret, salt); err != nil {
			return err
		}

		check := meta.Get([]byte(metaCheck))
		if check == nil {
			sealed, err := s.seal([]byte(metaCheck), []byte(checkPlaintext))
			if err != nil {
				return err
			}
			return meta.Put([]byte(metaCheck), sealed)
		}
		if _, err := s.open([]byte(metaCheck), check); err != nil {
			return ErrWrongSecret
		}
		return nil
	})
}

func (s *Store) deriveKeys(secret string, salt []byte) error {
	master := argon2.IDKey([]byte(secret), salt, 1, 64*1024, 4, 32)
	kdf := hkdf.New(sha256.New, master, salt, []byte(hkdfInfo))

	s.nameKey = make([]byte, 32)
	if _, err := io.ReadFull(kdf, s.nameKey); err != nil {
		return fmt.Errorf("derive name key: %w", err)
	}
	valueKey := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(kdf, valueKey); err != nil {
		return fmt.Errorf("derive value key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(valueKey)
	if err != nil {
		return err
	}
	s.aead = aead
	return nil
}

// Close closes the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under name. ok is false when absent.
func (s *Store) Get(name string) (value []byte, ok bool, err error) {
	key := s.hashName(name)
	err = s.db.View(func(tx *bbolt.Tx) error {
		sealed := tx.Bucket([]byte(bucketPrefs)).Get(key)
		if sealed == nil {
			return nil
		}
		v, err := s.open(key, sealed)
		if err != nil {
			return err
		}
		value, ok = v, true
		return nil
	})
	return value, ok, err
}

// Put stores value under name, replacing any previous value.
func (s *Store) Put(name string, value []byte) error {
	key := s.hashName(name)
	sealed, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketPrefs)).Put(key, sealed)
	})
}

// Delete removes name. Deleting an absent name is not an error.
func (s *Store) Delete(name string) error {
	key := s.hashName(name)
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketPrefs)).Delete(key)
	})
}

func (s *Store) hashName(name string) []byte {
	h, _ := blake2b.New256(s.nameKey) // only fails for keys over 64 bytes
	h.Write([]byte(name))
	return h.Sum(nil)
}

func (s *Store) seal(ad, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, ad), nil
}

func (s *Store) open(ad, sealed []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns {
		return nil, ErrCorrupt
	}
	v, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], ad)
	if err != nil {
		return nil, ErrCorrupt
	}
	return v, nil
}
