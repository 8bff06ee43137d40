package db

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mindtask/mindtask/internal/encryption"
)

const sealedPrefix = "sealed:"

// ErrWrongPassphrase is returned when a sealed value does not open with the
// configured passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase or damaged sealed data")

// SaltPath is where the key derivation salt lives for a data dir.
func SaltPath(dir string) string { return filepath.Join(dir, "salt") }

// Sealed encrypts values before handing them to the wrapped KV.
type Sealed struct {
	inner     KV
	encryptor *encryption.Encryptor
	log       *slog.Logger
}

// NewSealed wraps inner so every saved value is AES-GCM sealed with a key
// derived from password.
func NewSealed(inner KV, password, saltPath string, log *slog.Logger) (*Sealed, error) {
	encryptor, err := encryption.NewEncryptor(password, saltPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if encryptor.FreshSalt() {
		log.Warn("created a new salt; values sealed under a previous salt will not decrypt", "path", saltPath)
	}
	return &Sealed{inner: inner, encryptor: encryptor, log: log}, nil
}

// Load decrypts sealed values. Plain values written before a passphrase was
// configured are returned unchanged and get sealed on their next save.
func (s *Sealed) Load(key string) (string, bool, error) {
	v, ok, err := s.inner.Load(key)
	if err != nil || !ok {
		return v, ok, err
	}
	body, sealed := strings.CutPrefix(v, sealedPrefix)
	if !sealed {
		s.log.Debug("loaded unsealed value", "key", key)
		return v, true, nil
	}
	plain, err := s.encryptor.Decrypt(body)
	if err != nil {
		return "", false, fmt.Errorf("failed to decrypt %s: %w: %w", key, ErrWrongPassphrase, err)
	}
	return plain, true, nil
}

func (s *Sealed) Save(key, value string) error {
	enc, err := s.encryptor.Encrypt(value)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", key, err)
	}
	return s.inner.Save(key, sealedPrefix+enc)
}

func (s *Sealed) Close() error { return s.inner.Close() }
