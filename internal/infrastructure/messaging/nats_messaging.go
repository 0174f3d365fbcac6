// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package messaging publishes ingestion jobs over NATS.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/logging"
)

// INatsConn is the subset of *nats.Conn the publisher uses.
type INatsConn interface {
	Publish(subj string, data []byte) error
	IsConnected() bool
}

// NatsPublisher publishes ingestion job and dead-letter messages.
type NatsPublisher struct {
	conn INatsConn
}

// NewNatsPublisher creates a publisher over an established connection.
func NewNatsPublisher(conn INatsConn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

// IsReady reports whether the underlying connection is usable.
func (p *NatsPublisher) IsReady() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// PublishIngestionJob enqueues one engagement for ingestion.
func (p *NatsPublisher) PublishIngestionJob(ctx context.Context, job models.IngestionJobMessage) error {
	return p.publish(ctx, models.IngestionJobSubject, job)
}

// PublishIngestionDLQ records a job that exhausted its attempts.
func (p *NatsPublisher) PublishIngestionDLQ(ctx context.Context, message models.IngestionDLQMessage) error {
	return p.publish(ctx, models.IngestionDLQSubject, message)
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, payload any) error {
	if !p.IsReady() {
		return domain.NewUnavailableError("messaging connection is not available")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling message payload",
			logging.ErrKey, err, "subject", subject)
		return domain.NewInternalError("failed to marshal message payload", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		slog.ErrorContext(ctx, "error publishing message",
			logging.ErrKey, err, "subject", subject)
		return domain.NewUnavailableError("failed to publish message", err)
	}

	slog.DebugContext(ctx, "published message", "subject", subject)
	return nil
}
