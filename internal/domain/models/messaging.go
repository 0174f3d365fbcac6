// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// NATS subjects used by the ingestion pipeline.
const (
	// IngestionJobSubject carries engagement-ended jobs from the webhook
	// handler to the ingestion workers.
	IngestionJobSubject = "cc-recording.ingestion.engagement-ended"
	// IngestionDLQSubject receives jobs that failed permanently, including
	// retry-loop exhaustion, for operator-driven replay.
	IngestionDLQSubject = "cc-recording.ingestion.dlq"

	// IngestionQueueGroup is the queue group name for worker instances so
	// each job is delivered to exactly one worker.
	IngestionQueueGroup = "cc-recording-ingestion"
)

// IngestionJobMessage is the unit of work handed from the webhook entry
// point to the worker pool. The webhook response never reflects the outcome
// of the job; failures are observable via logs and the DLQ subject only.
type IngestionJobMessage struct {
	JobID        string    `json:"job_id"`
	EngagementID string    `json:"engagement_id"`
	TenantID     string    `json:"tenant_id"`
	ReceivedAt   time.Time `json:"received_at"`
}

// IngestionDLQMessage wraps a failed job with its terminal error for
// operator review.
type IngestionDLQMessage struct {
	Job      IngestionJobMessage `json:"job"`
	Reason   string              `json:"reason"`
	FailedAt time.Time           `json:"failed_at"`
}
