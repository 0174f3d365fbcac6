// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package secrets seals tenant credentials with age so they are encrypted
// at rest in the KV store. It wraps filippo.io/age's scrypt recipient around
// the process-wide secret passphrase: callers pass plaintext bytes in and
// get base64 strings out, suitable for JSON storage fields.
package secrets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"filippo.io/age"
)

// Sealer encrypts and decrypts small secrets with a shared passphrase.
type Sealer struct {
	recipient *age.ScryptRecipient
	identity  *age.ScryptIdentity
}

// NewSealer creates a Sealer from the process-wide secret passphrase.
func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("secret passphrase is required")
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	return &Sealer{recipient: recipient, identity: identity}, nil
}

// Seal encrypts plaintext and returns standard base64 ciphertext.
func (s *Sealer) Seal(plaintext []byte) (string, error) {
	var ciphertext bytes.Buffer
	w, err := age.Encrypt(&ciphertext, s.recipient)
	if err != nil {
		return "", fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return "", fmt.Errorf("writing plaintext: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing encryption: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext.Bytes()), nil
}

// SealString is Seal for string plaintext.
func (s *Sealer) SealString(plaintext string) (string, error) {
	return s.Seal([]byte(plaintext))
}

// Open decrypts base64 ciphertext produced by Seal. A wrong passphrase or
// corrupted ciphertext returns an error; callers treat that as fatal to the
// request, never retried.
func (s *Sealer) Open(ciphertext string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 ciphertext: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(raw), s.identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	return plaintext, nil
}

// OpenString is Open returning the plaintext as a string.
func (s *Sealer) OpenString(ciphertext string) (string, error) {
	plaintext, err := s.Open(ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptStream wraps dst so that everything written is age-encrypted with
// the process passphrase. The returned WriteCloser must be closed to flush
// the final chunk. Used by the encrypted recording storage backend.
func (s *Sealer) EncryptStream(dst io.Writer) (io.WriteCloser, error) {
	w, err := age.Encrypt(dst, s.recipient)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	return w, nil
}

// DecryptStream wraps src, yielding the decrypted bytes.
func (s *Sealer) DecryptStream(src io.Reader) (io.Reader, error) {
	r, err := age.Decrypt(src, s.identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	return r, nil
}
