// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package webhook validates inbound webhook requests from the
// contact-center platform.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/callstash/cc-recording-service/internal/domain"
)

// Validator checks webhook signatures with the shared secret token
// configured on the platform's event subscription.
type Validator struct {
	secretToken string
}

// NewValidator creates a validator. An empty secret disables signature
// checking, which is only acceptable in local development.
func NewValidator(secretToken string) *Validator {
	return &Validator{secretToken: secretToken}
}

// Enabled reports whether signature validation is active.
func (v *Validator) Enabled() bool {
	return v.secretToken != ""
}

// ValidateSignature checks the v0 signature scheme: the header must equal
// "v0=" + HMAC-SHA256(secret, "v0:{timestamp}:{body}").
func (v *Validator) ValidateSignature(body []byte, signature, timestamp string) error {
	if !v.Enabled() {
		return nil
	}
	if signature == "" || timestamp == "" {
		return domain.NewValidationError("webhook signature headers are missing")
	}

	message := fmt.Sprintf("v0:%s:%s", timestamp, body)
	expected := "v0=" + v.hash(message)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.NewValidationError("webhook signature mismatch")
	}
	return nil
}

// SignToken computes the HMAC-SHA256 of a url_validation plain token, hex
// encoded, for the challenge response.
func (v *Validator) SignToken(plainToken string) string {
	return v.hash(plainToken)
}

func (v *Validator) hash(message string) string {
	mac := hmac.New(sha256.New, []byte(v.secretToken))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
