// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package service implements the business logic of the recording service:
// webhook intake, the ingestion pipeline, credential resolution, and the
// review API's read side.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/infrastructure/secrets"
	"github.com/callstash/cc-recording-service/internal/logging"
)

// credentialCacheTTL bounds how long resolved credentials are reused before
// the sealed store is consulted again.
const credentialCacheTTL = 5 * time.Minute

type cachedCredentials struct {
	credentials models.UpstreamCredentials
	fetchedAt   time.Time
}

// CredentialService resolves the upstream API credentials for a tenant:
// sealed per-tenant credentials from the store when present, otherwise the
// process-wide fallback from the environment. Resolved plaintext is cached
// in memory with a short TTL.
type CredentialService struct {
	repository domain.TenantCredentialRepository
	sealer     *secrets.Sealer
	fallback   models.UpstreamCredentials

	mu    sync.RWMutex
	cache map[string]cachedCredentials
}

// NewCredentialService creates a credential service. fallback may be empty
// when every tenant has stored credentials.
func NewCredentialService(repository domain.TenantCredentialRepository, sealer *secrets.Sealer, fallback models.UpstreamCredentials) *CredentialService {
	return &CredentialService{
		repository: repository,
		sealer:     sealer,
		fallback:   fallback,
		cache:      make(map[string]cachedCredentials),
	}
}

// Resolve returns the plaintext upstream credentials for tenantID.
func (s *CredentialService) Resolve(ctx context.Context, tenantID string) (models.UpstreamCredentials, error) {
	if tenantID == "" {
		tenantID = models.DefaultTenantID
	}

	s.mu.RLock()
	cached, ok := s.cache[tenantID]
	s.mu.RUnlock()
	if ok && time.Since(cached.fetchedAt) < credentialCacheTTL {
		return cached.credentials, nil
	}

	stored, err := s.repository.Get(ctx, tenantID)
	if err != nil {
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return models.UpstreamCredentials{}, err
		}
		// No stored credentials for this tenant; fall back to the
		// environment-provided set.
		if !s.hasFallback() {
			return models.UpstreamCredentials{}, domain.NewConfigurationError(
				"no upstream credentials configured for tenant '" + tenantID + "'")
		}
		slog.DebugContext(ctx, "using fallback upstream credentials", "tenant_id", tenantID)
		s.store(tenantID, s.fallback)
		return s.fallback, nil
	}

	credentials, err := s.unseal(stored)
	if err != nil {
		slog.ErrorContext(ctx, "failed to unseal tenant credentials",
			logging.ErrKey, err, "tenant_id", tenantID)
		return models.UpstreamCredentials{}, domain.NewConfigurationError(
			"stored credentials for tenant '"+tenantID+"' cannot be decrypted", err)
	}

	s.store(tenantID, credentials)
	return credentials, nil
}

// Store seals and persists credentials for a tenant, then drops any cached
// plaintext so the next resolution sees the new values.
func (s *CredentialService) Store(ctx context.Context, tenantID string, credentials models.UpstreamCredentials) error {
	if tenantID == "" {
		return domain.NewValidationError("tenant id is required")
	}
	if credentials.ClientID == "" || credentials.ClientSecret == "" || credentials.AccountID == "" {
		return domain.NewValidationError("client id, client secret and account id are all required")
	}

	clientIDEnc, err := s.sealer.SealString(credentials.ClientID)
	if err != nil {
		return domain.NewInternalError("failed to seal client id", err)
	}
	clientSecretEnc, err := s.sealer.SealString(credentials.ClientSecret)
	if err != nil {
		return domain.NewInternalError("failed to seal client secret", err)
	}
	accountIDEnc, err := s.sealer.SealString(credentials.AccountID)
	if err != nil {
		return domain.NewInternalError("failed to seal account id", err)
	}

	now := time.Now().UTC()
	credential := &models.TenantCredential{
		TenantID:        tenantID,
		ClientIDEnc:     clientIDEnc,
		ClientSecretEnc: clientSecretEnc,
		AccountIDEnc:    accountIDEnc,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if existing, err := s.repository.Get(ctx, tenantID); err == nil {
		credential.CreatedAt = existing.CreatedAt
	}

	if err := s.repository.Put(ctx, credential); err != nil {
		return err
	}

	s.Invalidate(tenantID)
	slog.InfoContext(ctx, "stored upstream credentials", "tenant_id", tenantID)
	return nil
}

// HasStored reports whether the tenant has its own sealed credentials.
func (s *CredentialService) HasStored(ctx context.Context, tenantID string) (bool, error) {
	return s.repository.Exists(ctx, tenantID)
}

// TenantConfigStatus is the presence metadata returned by the config read
// endpoint. Secrets are never returned, decrypted or otherwise.
type TenantConfigStatus struct {
	TenantID   string     `json:"tenant_id"`
	Configured bool       `json:"configured"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// Status reports whether a tenant has stored credentials and when they were
// last written.
func (s *CredentialService) Status(ctx context.Context, tenantID string) (*TenantConfigStatus, error) {
	stored, err := s.repository.Get(ctx, tenantID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return &TenantConfigStatus{TenantID: tenantID, Configured: false}, nil
		}
		return nil, err
	}
	return &TenantConfigStatus{
		TenantID:   tenantID,
		Configured: true,
		CreatedAt:  &stored.CreatedAt,
		UpdatedAt:  &stored.UpdatedAt,
	}, nil
}

// Invalidate drops the cached plaintext for a tenant.
func (s *CredentialService) Invalidate(tenantID string) {
	s.mu.Lock()
	delete(s.cache, tenantID)
	s.mu.Unlock()
}

func (s *CredentialService) store(tenantID string, credentials models.UpstreamCredentials) {
	s.mu.Lock()
	s.cache[tenantID] = cachedCredentials{credentials: credentials, fetchedAt: time.Now()}
	s.mu.Unlock()
}

func (s *CredentialService) hasFallback() bool {
	return s.fallback.ClientID != "" && s.fallback.ClientSecret != "" && s.fallback.AccountID != ""
}

func (s *CredentialService) unseal(stored *models.TenantCredential) (models.UpstreamCredentials, error) {
	clientID, err := s.sealer.OpenString(stored.ClientIDEnc)
	if err != nil {
		return models.UpstreamCredentials{}, err
	}
	clientSecret, err := s.sealer.OpenString(stored.ClientSecretEnc)
	if err != nil {
		return models.UpstreamCredentials{}, err
	}
	accountID, err := s.sealer.OpenString(stored.AccountIDEnc)
	if err != nil {
		return models.UpstreamCredentials{}, err
	}
	return models.UpstreamCredentials{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AccountID:    accountID,
	}, nil
}
