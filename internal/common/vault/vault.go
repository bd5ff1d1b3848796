// Package vault provides write-only encryption for applicant identifiers.
// Nothing in the worker fleet ever decrypts; reads happen out of band with
// the same key material.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Vault encrypts PII values with AES-256-CTR. The key is derived from the
// configured secret with SHA-256 so operators can supply a passphrase of any
// length.
type Vault struct {
	key [32]byte
}

// New derives the encryption key from the shared secret.
func New(secret string) (*Vault, error) {
	if secret == "" {
		return nil, fmt.Errorf("vault secret must not be empty")
	}
	return &Vault{key: sha256.Sum256([]byte(secret))}, nil
}

// Encrypt returns "ivHex:cipherHex". A fresh random IV is drawn per call, so
// encrypting the same value twice yields different outputs.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(v.key[:])
	if err != nil {
		return "", fmt.Errorf("cipher init failed: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("iv generation failed: %w", err)
	}

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, []byte(plaintext))

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}
