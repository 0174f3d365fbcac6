// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/infrastructure/webhook"
	"github.com/callstash/cc-recording-service/internal/logging"
	"github.com/callstash/cc-recording-service/pkg/utils"
)

// WebhookService turns validated webhook deliveries into ingestion jobs.
// The HTTP handler acknowledges before the job runs; nothing here blocks on
// the pipeline.
type WebhookService struct {
	validator *webhook.Validator
	publisher domain.IngestionPublisher
}

// NewWebhookService creates the webhook intake service.
func NewWebhookService(validator *webhook.Validator, publisher domain.IngestionPublisher) *WebhookService {
	return &WebhookService{validator: validator, publisher: publisher}
}

// ValidateSignature checks the delivery's signature headers against the raw
// body.
func (s *WebhookService) ValidateSignature(body []byte, signature, timestamp string) error {
	return s.validator.ValidateSignature(body, signature, timestamp)
}

// HandleEvent processes one verified webhook body. The returned challenge is
// non-nil only for endpoint.url_validation events. Malformed bodies and
// unrecognized event types are dropped without error: the platform retries
// on non-2xx, and retrying garbage is never useful.
func (s *WebhookService) HandleEvent(ctx context.Context, body []byte) (*models.URLValidationResponse, error) {
	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		slog.WarnContext(ctx, "dropping malformed webhook body", logging.ErrKey, err)
		return nil, nil
	}

	switch event.Event {
	case models.EventEndpointURLValidation:
		return s.answerChallenge(ctx, event)
	case models.EventEngagementEnded:
		return nil, s.enqueueIngestion(ctx, event)
	default:
		slog.DebugContext(ctx, "ignoring webhook event", "event", event.Event)
		return nil, nil
	}
}

func (s *WebhookService) answerChallenge(ctx context.Context, event models.WebhookEvent) (*models.URLValidationResponse, error) {
	if event.Payload.PlainToken == "" {
		slog.WarnContext(ctx, "url_validation event without plain token")
		return nil, nil
	}
	slog.InfoContext(ctx, "answering endpoint url_validation challenge")
	return &models.URLValidationResponse{
		PlainToken:     event.Payload.PlainToken,
		EncryptedToken: s.validator.SignToken(event.Payload.PlainToken),
	}, nil
}

func (s *WebhookService) enqueueIngestion(ctx context.Context, event models.WebhookEvent) error {
	engagementID := event.Payload.Object.EngagementID
	if engagementID == "" {
		slog.WarnContext(ctx, "dropping engagement_ended event without engagement id")
		return nil
	}

	job := models.IngestionJobMessage{
		JobID:        uuid.NewString(),
		EngagementID: engagementID,
		TenantID:     utils.CoalesceString(event.Payload.AccountID, models.DefaultTenantID),
		ReceivedAt:   time.Now().UTC(),
	}

	if err := s.publisher.PublishIngestionJob(ctx, job); err != nil {
		// Enqueue failure is the one case worth a retry from the platform
		// side, so it propagates to a non-2xx response.
		slog.ErrorContext(ctx, "failed to enqueue ingestion job",
			logging.ErrKey, err, "engagement_id", engagementID)
		return err
	}

	slog.InfoContext(ctx, "enqueued ingestion job",
		"job_id", job.JobID,
		"engagement_id", job.EngagementID,
		"tenant_id", job.TenantID,
	)
	return nil
}
