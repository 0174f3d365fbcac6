// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// TenantCredential holds one tenant's upstream API credentials as stored:
// every secret field is sealed (age + base64) before it reaches the KV
// bucket and is only ever decrypted in memory at resolution time.
type TenantCredential struct {
	TenantID        string    `json:"tenant_id"`
	ClientIDEnc     string    `json:"client_id_enc"`
	ClientSecretEnc string    `json:"client_secret_enc"`
	AccountIDEnc    string    `json:"account_id_enc"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpstreamCredentials is the decrypted, in-memory form handed to the
// upstream client. It must never be persisted or logged.
type UpstreamCredentials struct {
	ClientID     string
	ClientSecret string
	AccountID    string
}
