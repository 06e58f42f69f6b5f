package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

const (
	// EncryptionMagicHeader is prepended to encrypted backup files.
	EncryptionMagicHeader = "RBCENC1"

	// Default Argon2 parameters (RFC 9106 recommendations)
	defaultArgon2Time    = 1
	defaultArgon2Memory  = 64 * 1024 // 64 MB
	defaultArgon2Threads = 4
	defaultArgon2KeyLen  = 32 // 256 bits for AES-256

	saltLength = 32
)

// EncryptionConfig holds configuration for encryption operations.
type EncryptionConfig struct {
	// Password is the encryption passphrase
	Password string

	// Argon2Time is the number of iterations for Argon2
	Argon2Time uint32

	// Argon2Memory is the amount of memory to use in KB
	Argon2Memory uint32

	// Argon2Threads is the number of threads to use
	Argon2Threads uint8
}

// DefaultEncryptionConfig returns encryption config with secure defaults.
func DefaultEncryptionConfig(password string) *EncryptionConfig {
	return &EncryptionConfig{
		Password:      password,
		Argon2Time:    defaultArgon2Time,
		Argon2Memory:  defaultArgon2Memory,
		Argon2Threads: defaultArgon2Threads,
	}
}

// deriveKey derives an AES key from the password using Argon2id.
func deriveKey(salt []byte, config *EncryptionConfig) []byte {
	return argon2.IDKey(
		[]byte(config.Password),
		salt,
		config.Argon2Time,
		config.Argon2Memory,
		config.Argon2Threads,
		defaultArgon2KeyLen,
	)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// EncryptData encrypts data using AES-256-GCM with password-based key derivation.
// Returns: salt + nonce + ciphertext + auth tag
func EncryptData(plaintext []byte, config *EncryptionConfig) ([]byte, error) {
	if config == nil || config.Password == "" {
		return nil, fmt.Errorf("encryption config with password required")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(deriveKey(salt, config))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)
	return result, nil
}

// DecryptData decrypts data that was encrypted with EncryptData.
func DecryptData(encrypted []byte, config *EncryptionConfig) ([]byte, error) {
	if config == nil || config.Password == "" {
		return nil, fmt.Errorf("encryption config with password required")
	}

	// GCM auth tag is 16 bytes, nonce is 12 bytes
	if len(encrypted) < saltLength+12+16 {
		return nil, fmt.Errorf("encrypted data too short")
	}

	salt := encrypted[:saltLength]
	encrypted = encrypted[saltLength:]

	gcm, err := newGCM(deriveKey(salt, config))
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	nonce := encrypted[:nonceSize]
	ciphertext := encrypted[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed (wrong password or corrupted data): %w", err)
	}
	return plaintext, nil
}

// WriteEncryptedFile encrypts plaintext and writes header + ciphertext to path.
func WriteEncryptedFile(path string, plaintext []byte, config *EncryptionConfig) error {
	encrypted, err := EncryptData(plaintext, config)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	data := append([]byte(EncryptionMagicHeader), encrypted...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write encrypted file: %w", err)
	}
	return nil
}

// ReadEncryptedFile reads and decrypts a file written by WriteEncryptedFile.
func ReadEncryptedFile(path string, config *EncryptionConfig) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted file: %w", err)
	}

	if len(data) < len(EncryptionMagicHeader) || string(data[:len(EncryptionMagicHeader)]) != EncryptionMagicHeader {
		return nil, fmt.Errorf("file is not encrypted or has wrong format")
	}

	plaintext, err := DecryptData(data[len(EncryptionMagicHeader):], config)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}
