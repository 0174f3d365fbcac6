// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// NatsTenantCredentialRepository persists sealed upstream credentials in the
// "tenant-credentials" KV bucket keyed by tenant ID.
type NatsTenantCredentialRepository struct {
	*NatsBaseRepository[models.TenantCredential]
}

// NewNatsTenantCredentialRepository creates a new tenant credential repository.
func NewNatsTenantCredentialRepository(kvStore INatsKeyValue) *NatsTenantCredentialRepository {
	return &NatsTenantCredentialRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.TenantCredential](kvStore, "tenant credential"),
	}
}

// Get retrieves the sealed credentials for one tenant.
func (r *NatsTenantCredentialRepository) Get(ctx context.Context, tenantID string) (*models.TenantCredential, error) {
	return r.NatsBaseRepository.Get(ctx, tenantID)
}

// Put stores the sealed credentials for a tenant.
func (r *NatsTenantCredentialRepository) Put(ctx context.Context, credential *models.TenantCredential) error {
	if credential.TenantID == "" {
		return domain.NewValidationError("tenant credential is missing a tenant ID")
	}
	return r.NatsBaseRepository.Put(ctx, credential.TenantID, credential)
}
