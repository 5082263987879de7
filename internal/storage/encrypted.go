package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"

	"github.com/caresync/caresync/internal/errors"
)

const secretFile = ".machine-secret"

// EncryptedStore wraps a Store and seals every value with AES-GCM.
// The key is derived with HKDF-SHA256 from a random machine secret kept
// next to the state files. This protects cached health data at rest; it
// is not a defense against an attacker who can read the secret file.
type EncryptedStore struct {
	inner Store
	aead  cipher.AEAD
}

// NewEncryptedStore loads (or creates) the machine secret under dir and
// returns a store that encrypts values before handing them to inner.
func NewEncryptedStore(inner Store, dir string) (*EncryptedStore, error) {
	secret, err := loadOrCreateSecret(dir)
	if err != nil {
		return nil, err
	}
	key := make([]byte, 32)
	h := hkdf.New(sha256.New, secret, nil, []byte("caresync-state-encryption"))
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreSecret, "could not derive state key", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreSecret, "could not initialize cipher", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreSecret, "could not initialize cipher", err)
	}
	return &EncryptedStore{inner: inner, aead: aead}, nil
}

func loadOrCreateSecret(dir string) ([]byte, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirectoryFailed, "could not create state directory", err)
	}
	path := filepath.Join(dir, secretFile)
	secret, err := os.ReadFile(path)
	if err == nil && len(secret) == 32 {
		return secret, nil
	}
	secret = make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreSecret, "could not generate machine secret", err)
	}
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreSecret, "could not persist machine secret", err)
	}
	return secret, nil
}

// GetItem returns the decrypted value. A value that fails to open (corrupted
// file or rotated secret) reads as absent so the session degrades to
// anonymous instead of failing bootstrap.
func (s *EncryptedStore) GetItem(key string) ([]byte, bool, error) {
	sealed, ok, err := s.inner.GetItem(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(sealed) < s.aead.NonceSize() {
		_ = s.inner.RemoveItem(key)
		return nil, false, nil
	}
	nonce, ct := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		_ = s.inner.RemoveItem(key)
		return nil, false, nil
	}
	return plain, true, nil
}

// SetItem seals the value and stores it.
func (s *EncryptedStore) SetItem(key string, value []byte) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "could not generate nonce", err)
	}
	sealed := s.aead.Seal(nonce, nonce, value, []byte(key))
	return s.inner.SetItem(key, sealed)
}

// RemoveItem deletes a key.
func (s *EncryptedStore) RemoveItem(key string) error {
	return s.inner.RemoveItem(key)
}
