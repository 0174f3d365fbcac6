// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package models

// Webhook event types recognized by the service. The platform has shipped
// several spellings of the engagement-ended event over time; only the
// canonical one below is accepted, everything else is acknowledged and
// dropped.
const (
	EventEngagementEnded       = "contact_center.engagement_ended"
	EventEndpointURLValidation = "endpoint.url_validation"
)

// WebhookEvent is the canonical inbound webhook envelope.
type WebhookEvent struct {
	Event   string         `json:"event"`
	EventTS int64          `json:"event_ts"`
	Payload WebhookPayload `json:"payload"`
}

// WebhookPayload is the canonical payload for contact-center events.
// AccountID identifies the tenant; it is optional and defaults to the
// sentinel tenant when absent.
type WebhookPayload struct {
	AccountID string `json:"account_id"`
	Object    struct {
		EngagementID string `json:"engagement_id"`
	} `json:"object"`
	// PlainToken is only present on endpoint.url_validation challenges.
	PlainToken string `json:"plainToken"`
}

// URLValidationResponse answers the platform's endpoint verification
// challenge: the plain token echoed back with its HMAC-SHA256.
type URLValidationResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}
