// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"strings"
	"time"
)

// NewEngagementRecord normalizes upstream engagement detail and the selected
// recording into the canonical record. Every upstream-optional field gets an
// explicit default (empty string, zero, false) so downstream consumers can
// rely on field presence. Storage fields (LocalPath, PublicURL) are set by
// the orchestrator once the recording bytes are durably on disk.
func NewEngagementRecord(tenantID string, detail *EngagementDetail, recording *RecordingMetadata) *EngagementRecord {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}

	now := time.Now().UTC()
	record := &EngagementRecord{
		EngagementID:          detail.EngagementID,
		TenantID:              tenantID,
		StartTime:             engagementStartTime(detail, recording, now),
		Duration:              detail.Duration,
		WaitingDuration:       detail.WaitingDuration,
		HandlingDuration:      detail.HandlingDuration,
		WrapUpDuration:        detail.WrapUpDuration,
		Direction:             detail.Direction,
		Consumer:              ComposeConsumer(detail.Consumers),
		Agent:                 joinAgents(detail.Agents),
		Queue:                 firstQueue(detail.Queues),
		Flow:                  firstFlow(detail.Flows),
		Disposition:           firstDisposition(detail.Dispositions),
		Channel:               detail.Channel,
		Source:                detail.Source,
		TransferType:          detail.TransferType,
		UpgradedToChannelType: detail.UpgradedToChannelType,
		AcceptType:            deriveAcceptType(detail.Events),
		Notes:                 joinNotes(detail.Notes),
		TranscriptRef:         detail.TranscriptURL,
		Voicemail:             detail.VoiceMail,
		RecordingConsent:      detail.RecordingConsent,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if recording != nil {
		record.RecordingURL = recording.DownloadURL
	}
	return record
}

// engagementStartTime prefers the engagement's own start time, falls back to
// the recording's, then to the ingestion time. The partition path derives
// from this value, so it must never be zero.
func engagementStartTime(detail *EngagementDetail, recording *RecordingMetadata, now time.Time) time.Time {
	if !detail.StartTime.IsZero() {
		return detail.StartTime
	}
	if recording != nil && !recording.StartTime.IsZero() {
		return recording.StartTime
	}
	return now
}

// ComposeConsumer renders the customer party for display: name and number on
// separate lines when both are present, whichever exists otherwise, and the
// placeholder when the engagement carries no consumer identity at all.
func ComposeConsumer(consumers []EngagementConsumer) string {
	if len(consumers) == 0 {
		return FieldPlaceholder
	}
	c := consumers[0]
	switch {
	case c.ConsumerDisplayName != "" && c.ConsumerNumber != "":
		return c.ConsumerDisplayName + "\n" + c.ConsumerNumber
	case c.ConsumerDisplayName != "":
		return c.ConsumerDisplayName
	case c.ConsumerNumber != "":
		return c.ConsumerNumber
	default:
		return FieldPlaceholder
	}
}

func joinAgents(agents []EngagementAgent) string {
	names := make([]string, 0, len(agents))
	for _, a := range agents {
		if a.DisplayName != "" {
			names = append(names, a.DisplayName)
		}
	}
	return strings.Join(names, ", ")
}

func joinNotes(notes []EngagementNote) string {
	entries := make([]string, 0, len(notes))
	for _, n := range notes {
		if n.Content != "" {
			entries = append(entries, n.Content)
		}
	}
	return strings.Join(entries, "\n")
}

func firstQueue(queues []EngagementQueue) string {
	if len(queues) == 0 {
		return ""
	}
	return queues[0].QueueName
}

func firstFlow(flows []EngagementFlow) string {
	if len(flows) == 0 {
		return ""
	}
	return flows[0].FlowName
}

func firstDisposition(dispositions []EngagementDisposition) string {
	if len(dispositions) == 0 {
		return ""
	}
	return dispositions[0].DispositionName
}

// deriveAcceptType reports "manual" when the upstream event log shows the
// agent accepting the engagement, and the placeholder otherwise.
func deriveAcceptType(events []EngagementEvent) string {
	for _, e := range events {
		if e.EventType == EventTypeAgentAccept {
			return "manual"
		}
	}
	return FieldPlaceholder
}
