// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// NatsEngagementRepository persists engagement records in the "engagements"
// KV bucket keyed by engagement ID.
type NatsEngagementRepository struct {
	*NatsBaseRepository[models.EngagementRecord]
}

// NewNatsEngagementRepository creates a new engagement repository.
func NewNatsEngagementRepository(kvStore INatsKeyValue) *NatsEngagementRepository {
	return &NatsEngagementRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.EngagementRecord](kvStore, "engagement"),
	}
}

// Upsert creates or fully replaces the record for its engagement ID.
func (r *NatsEngagementRepository) Upsert(ctx context.Context, record *models.EngagementRecord) error {
	if record.EngagementID == "" {
		return domain.NewValidationError("engagement record is missing an engagement ID")
	}
	return r.Put(ctx, record.EngagementID, record)
}

// Get retrieves one engagement record by ID.
func (r *NatsEngagementRepository) Get(ctx context.Context, engagementID string) (*models.EngagementRecord, error) {
	return r.NatsBaseRepository.Get(ctx, engagementID)
}

// ListAll returns every stored engagement record.
func (r *NatsEngagementRepository) ListAll(ctx context.Context) ([]*models.EngagementRecord, error) {
	return r.ListEntities(ctx)
}
