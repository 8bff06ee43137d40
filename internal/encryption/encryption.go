package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 32
	KeySize    = 32
	Iterations = 100000
)

var (
	ErrEmptyPassphrase = errors.New("empty passphrase")
	ErrBadSalt         = errors.New("salt file has the wrong size")
	ErrShortCiphertext = errors.New("ciphertext too short")
)

// Encryptor seals and opens stored snapshots with AES-GCM.
type Encryptor struct {
	aead      cipher.AEAD
	freshSalt bool
}

// NewEncryptor derives a key from password and the salt at saltPath. A missing
// salt file is created; FreshSalt reports when that happened.
func NewEncryptor(password, saltPath string) (*Encryptor, error) {
	if password == "" {
		return nil, ErrEmptyPassphrase
	}
	salt, fresh, err := loadSalt(saltPath)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &Encryptor{aead: aead, freshSalt: fresh}, nil
}

// FreshSalt is true when NewEncryptor had to create the salt file. Anything
// sealed under an earlier salt no longer opens.
func (e *Encryptor) FreshSalt() bool { return e.freshSalt }

// loadSalt reads the salt, creating it when the file does not exist. A file of
// the wrong size is an error rather than being replaced.
func loadSalt(path string) ([]byte, bool, error) {
	salt, err := os.ReadFile(path)
	switch {
	case err == nil && len(salt) == SaltSize:
		return salt, false, nil
	case err == nil:
		return nil, false, fmt.Errorf("%s: %w (%d bytes)", path, ErrBadSalt, len(salt))
	case !errors.Is(err, fs.ErrNotExist):
		return nil, false, fmt.Errorf("read salt: %w", err)
	}

	salt = make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, false, fmt.Errorf("generate salt: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, false, fmt.Errorf("create salt dir: %w", err)
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, false, fmt.Errorf("write salt: %w", err)
	}
	return salt, true, nil
}

// Encrypt returns base64(nonce || ciphertext). Empty input stays empty.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(e.aead.Seal(nonce, nonce, []byte(plaintext), nil)), nil
}

func (e *Encryptor) Decrypt(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	n := e.aead.NonceSize()
	if len(data) < n {
		return "", ErrShortCiphertext
	}
	plain, err := e.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return string(plain), nil
}
