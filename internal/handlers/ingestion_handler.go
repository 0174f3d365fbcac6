// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package handlers consumes NATS messages and dispatches them to the
// service layer.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/logging"
	"github.com/callstash/cc-recording-service/internal/service"
	"github.com/callstash/cc-recording-service/pkg/concurrent"
)

// IngestionHandler consumes ingestion job messages and runs the pipeline on
// a bounded worker pool. Jobs that fail for reasons other than "this
// engagement has no voice recording" are forwarded to the dead-letter
// subject for operator-driven replay.
type IngestionHandler struct {
	ingestion *service.IngestionService
	publisher domain.IngestionPublisher
	pool      *concurrent.WorkerPool
}

// NewIngestionHandler creates the job consumer.
func NewIngestionHandler(ingestion *service.IngestionService, publisher domain.IngestionPublisher, pool *concurrent.WorkerPool) *IngestionHandler {
	return &IngestionHandler{
		ingestion: ingestion,
		publisher: publisher,
		pool:      pool,
	}
}

// HandleMessage implements domain.MessageHandler. It blocks only while the
// worker pool is saturated; the job itself runs asynchronously.
func (h *IngestionHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	var job models.IngestionJobMessage
	if err := json.Unmarshal(msg.Data(), &job); err != nil {
		slog.ErrorContext(ctx, "dropping unparseable ingestion job",
			logging.ErrKey, err, "subject", msg.Subject())
		return
	}
	if job.EngagementID == "" {
		slog.ErrorContext(ctx, "dropping ingestion job without engagement id",
			"job_id", job.JobID)
		return
	}

	h.pool.Submit(func() {
		h.runJob(ctx, job)
	})
}

func (h *IngestionHandler) runJob(ctx context.Context, job models.IngestionJobMessage) {
	ctx = logging.AppendCtx(ctx, slog.String("job_id", job.JobID))

	err := h.ingestion.HandleEngagementEnded(ctx, job.EngagementID, job.TenantID)
	if err == nil {
		return
	}

	if errors.Is(err, domain.ErrNoRecordingFound) {
		// Policy outcome, not a failure: nothing to replay.
		return
	}

	dlq := models.IngestionDLQMessage{
		Job:      job,
		Reason:   err.Error(),
		FailedAt: time.Now().UTC(),
	}
	if dlqErr := h.publisher.PublishIngestionDLQ(ctx, dlq); dlqErr != nil {
		slog.With(logging.PriorityCritical()).ErrorContext(ctx,
			"failed ingestion job could not be dead-lettered",
			logging.ErrKey, dlqErr,
			"engagement_id", job.EngagementID,
			"ingestion_error", err.Error(),
		)
		return
	}
	slog.WarnContext(ctx, "ingestion job dead-lettered",
		"engagement_id", job.EngagementID, "reason", err.Error())
}
