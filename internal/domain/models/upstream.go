// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// ChannelVoice is the recording channel this service ingests. Recordings on
// other channels (chat, video, sms) are ignored by policy: the portal only
// reviews voice.
const ChannelVoice = "voice"

// EngagementDetail is the upstream engagement resource as fetched from the
// contact-center API. Every field is optional upstream; normalization into
// an EngagementRecord supplies the defaults.
type EngagementDetail struct {
	EngagementID          string                  `json:"engagement_id"`
	Direction             string                  `json:"direction"`
	StartTime             time.Time               `json:"start_time"`
	EndTime               time.Time               `json:"end_time"`
	Channel               string                  `json:"channel"`
	Source                string                  `json:"source"`
	TransferType          string                  `json:"transfer_type"`
	UpgradedToChannelType string                  `json:"upgraded_to_channel_type"`
	Duration              int                     `json:"duration"`
	WaitingDuration       int                     `json:"waiting_duration"`
	HandlingDuration      int                     `json:"handling_duration"`
	WrapUpDuration        int                     `json:"wrap_up_duration"`
	Consumers             []EngagementConsumer    `json:"consumers"`
	Agents                []EngagementAgent       `json:"agents"`
	Queues                []EngagementQueue       `json:"queues"`
	Flows                 []EngagementFlow        `json:"flows"`
	Dispositions          []EngagementDisposition `json:"dispositions"`
	Notes                 []EngagementNote        `json:"notes"`
	Events                []EngagementEvent       `json:"events"`
	VoiceMail             bool                    `json:"voice_mail"`
	RecordingConsent      bool                    `json:"recording_consent"`
	TranscriptURL         string                  `json:"transcript_url"`
}

// EngagementConsumer is one customer party on the engagement.
type EngagementConsumer struct {
	ConsumerDisplayName string `json:"consumer_display_name"`
	ConsumerNumber      string `json:"consumer_number"`
}

// EngagementAgent is one agent party on the engagement.
type EngagementAgent struct {
	DisplayName string `json:"display_name"`
}

// EngagementQueue is a queue the engagement was routed through.
type EngagementQueue struct {
	QueueName string `json:"queue_name"`
}

// EngagementFlow is a flow the engagement traversed.
type EngagementFlow struct {
	FlowName string `json:"flow_name"`
}

// EngagementDisposition is one wrap-up disposition; upstream returns a list,
// the canonical record keeps only the first.
type EngagementDisposition struct {
	DispositionName string `json:"disposition_name"`
}

// EngagementNote is one agent note entry.
type EngagementNote struct {
	Content string `json:"content"`
}

// EngagementEvent is one entry of the upstream event log.
type EngagementEvent struct {
	EventType string    `json:"event_type"`
	EventTime time.Time `json:"event_time"`
}

// EventTypeAgentAccept marks a manual accept in the upstream event log; its
// presence derives accept type "manual" on the canonical record.
const EventTypeAgentAccept = "agent_accept"

// RecordingMetadata describes one recording entry from the upstream
// recording list. DownloadURL is signed and short-lived.
type RecordingMetadata struct {
	RecordingID   string    `json:"recording_id"`
	Channel       string    `json:"channel"`
	DownloadURL   string    `json:"download_url"`
	FileExtension string    `json:"file_extension"`
	StartTime     time.Time `json:"start_time"`
}
