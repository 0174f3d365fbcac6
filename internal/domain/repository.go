// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package domain holds the service's core interfaces and error taxonomy.
// Implementations live under internal/infrastructure.
package domain

import (
	"context"

	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// EngagementRepository is the durable store for canonical engagement
// records, keyed by engagement id.
type EngagementRepository interface {
	// Upsert stores the record under its engagement id, replacing any
	// previous revision. Last writer wins; the ingestion pipeline
	// serializes writers per engagement id above this layer.
	Upsert(ctx context.Context, record *models.EngagementRecord) error
	Get(ctx context.Context, engagementID string) (*models.EngagementRecord, error)
	Exists(ctx context.Context, engagementID string) (bool, error)
	ListAll(ctx context.Context) ([]*models.EngagementRecord, error)
	IsReady() bool
}

// TenantCredentialRepository stores per-tenant upstream credentials. Values
// are sealed before they reach this layer; the repository never sees
// plaintext secrets.
type TenantCredentialRepository interface {
	Get(ctx context.Context, tenantID string) (*models.TenantCredential, error)
	Put(ctx context.Context, credential *models.TenantCredential) error
	Exists(ctx context.Context, tenantID string) (bool, error)
	IsReady() bool
}
