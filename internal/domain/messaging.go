// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// Message is the transport-agnostic view of an inbound queue message,
// satisfied by *nats.Msg through a thin wrapper.
type Message interface {
	Subject() string
	Data() []byte
}

// MessageHandler consumes queue messages. The ingestion worker implements
// this for the engagement-ended job subject.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
}

// IngestionPublisher hands ingestion work from the webhook entry point to
// the worker side, and routes permanently failed jobs to the dead-letter
// subject.
type IngestionPublisher interface {
	PublishIngestionJob(ctx context.Context, job models.IngestionJobMessage) error
	PublishIngestionDLQ(ctx context.Context, msg models.IngestionDLQMessage) error
}
