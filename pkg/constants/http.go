// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package constants holds shared HTTP header names, context keys, and role
// values.
package constants

// HTTP headers.
const (
	RequestIDHeader     = "X-Request-ID"
	AuthorizationHeader = "Authorization"

	// Webhook signature headers sent by the contact-center platform.
	WebhookSignatureHeader = "x-sig-signature"
	WebhookTimestampHeader = "x-sig-timestamp"
)

type contextID string

// Context keys.
const (
	RequestIDContextID contextID = "request_id"
	PrincipalContextID contextID = "principal"
	RoleContextID      contextID = "role"
	TenantContextID    contextID = "tenant_id"
)

// Portal roles carried in JWT claims.
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)
