// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// Engagement direction values.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
	DirectionInternal = "internal"
)

// DefaultTenantID is used when an inbound event carries no account id.
const DefaultTenantID = "default"

// FieldPlaceholder is stored for display fields whose upstream value is
// entirely absent, so downstream consumers never see an undefined field.
const FieldPlaceholder = "-"

// EngagementRecord is the canonical, normalized record persisted after a
// successful ingestion. The engagement id is the natural key: repeated
// ingestion of the same id upserts rather than inserts.
type EngagementRecord struct {
	EngagementID string `json:"engagement_id"`
	TenantID     string `json:"tenant_id"`

	StartTime        time.Time `json:"start_time"`
	Duration         int       `json:"duration"`          // seconds
	WaitingDuration  int       `json:"waiting_duration"`  // seconds
	HandlingDuration int       `json:"handling_duration"` // seconds
	WrapUpDuration   int       `json:"wrap_up_duration"`  // seconds

	Direction string `json:"direction"`
	Consumer  string `json:"consumer"` // display name and/or number, "-" when both absent
	Agent     string `json:"agent"`    // comma-joined participating agent display names

	Queue                 string `json:"queue"`
	Flow                  string `json:"flow"`
	Disposition           string `json:"disposition"`
	Channel               string `json:"channel"`
	Source                string `json:"source"`
	TransferType          string `json:"transfer_type"`
	UpgradedToChannelType string `json:"upgraded_to_channel_type"`
	AcceptType            string `json:"accept_type"` // "manual" when an agent-accept event exists

	Notes            string `json:"notes"` // note entries joined with newlines
	TranscriptRef    string `json:"transcript_ref"`
	Voicemail        bool   `json:"voicemail"`
	RecordingConsent bool   `json:"recording_consent"`

	// RecordingURL is the upstream short-lived download URL, retained for
	// audit only; it is not reusable after expiry.
	RecordingURL string `json:"recording_url"`
	// LocalPath and PublicURL are set only after the recording bytes have
	// been fully written; a record never references a partial file.
	LocalPath string `json:"local_path"`
	PublicURL string `json:"public_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAgent reports whether the named agent participated in the engagement.
func (r *EngagementRecord) HasAgent(name string) bool {
	return name != "" && agentListContains(r.Agent, name)
}

// EngagementFilter narrows the review listing. Zero values mean "any".
type EngagementFilter struct {
	TenantID  string
	Queue     string
	Agent     string
	Channel   string
	Direction string
	From      time.Time
	To        time.Time
}

// Matches reports whether the record satisfies every set filter field.
// Agent matching is a substring check against the comma-joined agent list.
func (f EngagementFilter) Matches(r *EngagementRecord) bool {
	if f.TenantID != "" && r.TenantID != f.TenantID {
		return false
	}
	if f.Queue != "" && r.Queue != f.Queue {
		return false
	}
	if f.Agent != "" && !agentListContains(r.Agent, f.Agent) {
		return false
	}
	if f.Channel != "" && r.Channel != f.Channel {
		return false
	}
	if f.Direction != "" && r.Direction != f.Direction {
		return false
	}
	if !f.From.IsZero() && r.StartTime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.StartTime.After(f.To) {
		return false
	}
	return true
}

func agentListContains(joined, name string) bool {
	start := 0
	for i := 0; i <= len(joined); i++ {
		if i == len(joined) || joined[i] == ',' {
			entry := joined[start:i]
			// trim the single space a ", " join leaves behind
			for len(entry) > 0 && entry[0] == ' ' {
				entry = entry[1:]
			}
			if entry == name {
				return true
			}
			start = i + 1
		}
	}
	return false
}
