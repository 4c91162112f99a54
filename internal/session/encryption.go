// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Encryption errors.
var (
	// ErrDecryptionFailed indicates the ciphertext could not be decrypted,
	// typically because the master key changed.
	ErrDecryptionFailed = errors.New("session decryption failed")

	// ErrInvalidCiphertext indicates the stored payload is malformed.
	ErrInvalidCiphertext = errors.New("invalid session ciphertext")
)

// encryptionContext binds derived keys to this purpose so the same master
// key can be reused elsewhere without nonce/key collisions.
const encryptionContext = "fieldctl-session-encryption"

// Encryptor provides AES-GCM encryption for the session file at rest.
// The key is derived from the configured master key via HKDF-SHA256.
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor creates an encryptor from a base64-encoded master key.
// Returns (nil, nil) when the key is empty: encryption disabled.
func NewEncryptor(masterKeyB64 string) (*Encryptor, error) {
	if masterKeyB64 == "" {
		return nil, nil // Encryption disabled
	}

	masterKey, err := base64.StdEncoding.DecodeString(masterKeyB64)
	if err != nil {
		return nil, fmt.Errorf("decode master key: %w", err)
	}
	if len(masterKey) < 16 {
		return nil, errors.New("master key must be at least 16 bytes")
	}

	derived, err := deriveKey(masterKey, []byte(encryptionContext), 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM cipher: %w", err)
	}

	return &Encryptor{aead: aead}, nil
}

// deriveKey derives a key using HKDF-SHA256.
func deriveKey(secret, context []byte, keyLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, context)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt seals the plaintext. The random nonce is prepended to the output.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a payload produced by Encrypt.
func (e *Encryptor) Decrypt(payload []byte) ([]byte, error) {
	nonceSize := e.aead.NonceSize()
	if len(payload) < nonceSize {
		return nil, ErrInvalidCiphertext
	}
	nonce, ciphertext := payload[:nonceSize], payload[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
