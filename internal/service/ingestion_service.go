// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/infrastructure/storage"
	"github.com/callstash/cc-recording-service/internal/logging"
	"github.com/callstash/cc-recording-service/pkg/concurrent"
)

// Ingestion retry loop defaults. The upstream recording resource
// materializes asynchronously after the engagement ends, so the fetch
// tolerates a bounded window of 404s before giving up.
const (
	DefaultMaxAttempts  = 5
	DefaultPollInterval = 10 * time.Second
)

// IngestionConfig tunes the recording fetch retry loop.
type IngestionConfig struct {
	MaxAttempts  int
	PollInterval time.Duration
}

func (c IngestionConfig) withDefaults() IngestionConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// IngestionService runs the engagement ingestion pipeline: resolve tenant
// credentials, fetch engagement detail and recording metadata from
// upstream, download the recording, and upsert the normalized record. The
// whole pipeline for one engagement either commits fully or leaves no
// trace.
type IngestionService struct {
	credentials   *CredentialService
	clientFactory domain.ContactCenterClientFactory
	storage       domain.RecordingStorage
	repository    domain.EngagementRepository
	config        IngestionConfig

	// locks serializes ingestion per engagement id so duplicate webhook
	// deliveries cannot race the file write or the upsert.
	locks *concurrent.KeyedMutex
}

// NewIngestionService creates the ingestion orchestrator.
func NewIngestionService(
	credentials *CredentialService,
	clientFactory domain.ContactCenterClientFactory,
	recordingStorage domain.RecordingStorage,
	repository domain.EngagementRepository,
	config IngestionConfig,
) *IngestionService {
	return &IngestionService{
		credentials:   credentials,
		clientFactory: clientFactory,
		storage:       recordingStorage,
		repository:    repository,
		config:        config.withDefaults(),
		locks:         concurrent.NewKeyedMutex(),
	}
}

// HandleEngagementEnded ingests one ended engagement. Re-invocation with
// the same engagement id after a prior success re-downloads and overwrites
// both file and record.
func (s *IngestionService) HandleEngagementEnded(ctx context.Context, engagementID, tenantID string) error {
	if engagementID == "" {
		return domain.NewValidationError("engagement id is required")
	}

	unlock := s.locks.Lock(engagementID)
	defer unlock()

	ctx = logging.AppendCtx(ctx, slog.String("engagement_id", engagementID))
	started := time.Now()

	credentials, err := s.credentials.Resolve(ctx, tenantID)
	if err != nil {
		slog.ErrorContext(ctx, "ingestion aborted: credential resolution failed",
			logging.ErrKey, err, "tenant_id", tenantID)
		return err
	}
	client := s.clientFactory.ClientFor(credentials)

	detail, err := client.GetEngagement(ctx, engagementID)
	if err != nil {
		slog.ErrorContext(ctx, "ingestion aborted: engagement fetch failed", logging.ErrKey, err)
		return err
	}

	recording, err := s.awaitRecording(ctx, client, engagementID)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecordingFound) {
			slog.WarnContext(ctx, "ingestion aborted: engagement has no voice recording")
		} else {
			slog.ErrorContext(ctx, "ingestion aborted: recording metadata unavailable", logging.ErrKey, err)
		}
		return err
	}

	record := models.NewEngagementRecord(tenantID, detail, recording)

	location := s.storage.Plan(record.StartTime, engagementID,
		extensionOrDefault(recording.FileExtension))

	body, err := client.Download(ctx, recording.DownloadURL)
	if err != nil {
		slog.ErrorContext(ctx, "ingestion aborted: recording download failed", logging.ErrKey, err)
		return err
	}
	defer body.Close()

	written, err := s.storage.Save(ctx, location, body)
	if err != nil {
		slog.ErrorContext(ctx, "ingestion aborted: recording write failed",
			logging.ErrKey, err, "local_path", location.LocalPath)
		return err
	}

	record.RecordingURL = recording.DownloadURL
	record.LocalPath = location.LocalPath
	record.PublicURL = location.PublicURL

	if err := s.repository.Upsert(ctx, record); err != nil {
		slog.ErrorContext(ctx, "ingestion aborted: record upsert failed", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "engagement ingested",
		"tenant_id", record.TenantID,
		"local_path", record.LocalPath,
		"bytes", written,
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)
	return nil
}

// awaitRecording polls the recording list until the voice entry
// materializes. Only the upstream not-found signal is retried; everything
// else, including a present list without a voice entry, propagates
// immediately.
func (s *IngestionService) awaitRecording(ctx context.Context, client domain.ContactCenterClient, engagementID string) (*models.RecordingMetadata, error) {
	var lastErr error
	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		recording, err := client.GetVoiceRecording(ctx, engagementID)
		if err == nil {
			return recording, nil
		}
		if errors.Is(err, domain.ErrNoRecordingFound) {
			return nil, err
		}
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return nil, err
		}
		lastErr = err

		if attempt == s.config.MaxAttempts {
			break
		}
		slog.InfoContext(ctx, "recording not yet available upstream, waiting",
			"attempt", attempt, "max_attempts", s.config.MaxAttempts)
		select {
		case <-ctx.Done():
			return nil, domain.NewInternalError("ingestion canceled while waiting for recording", ctx.Err())
		case <-time.After(s.config.PollInterval):
		}
	}
	return nil, domain.NewNotReadyError("recording still unavailable after retry exhaustion", lastErr)
}

func extensionOrDefault(extension string) string {
	if extension == "" {
		return storage.DefaultExtension
	}
	return extension
}
