// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// MockEngagementRepository is a mock implementation of domain.EngagementRepository.
type MockEngagementRepository struct {
	mock.Mock
}

func (m *MockEngagementRepository) Upsert(ctx context.Context, record *models.EngagementRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockEngagementRepository) Get(ctx context.Context, engagementID string) (*models.EngagementRecord, error) {
	args := m.Called(ctx, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EngagementRecord), args.Error(1)
}

func (m *MockEngagementRepository) Exists(ctx context.Context, engagementID string) (bool, error) {
	args := m.Called(ctx, engagementID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) ListAll(ctx context.Context) ([]*models.EngagementRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EngagementRecord), args.Error(1)
}

func (m *MockEngagementRepository) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockTenantCredentialRepository is a mock implementation of domain.TenantCredentialRepository.
type MockTenantCredentialRepository struct {
	mock.Mock
}

func (m *MockTenantCredentialRepository) Get(ctx context.Context, tenantID string) (*models.TenantCredential, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantCredential), args.Error(1)
}

func (m *MockTenantCredentialRepository) Put(ctx context.Context, credential *models.TenantCredential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockTenantCredentialRepository) Exists(ctx context.Context, tenantID string) (bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantCredentialRepository) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}
