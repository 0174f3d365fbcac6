// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// MockContactCenterClient is a mock implementation of domain.ContactCenterClient.
type MockContactCenterClient struct {
	mock.Mock
}

func (m *MockContactCenterClient) GetEngagement(ctx context.Context, engagementID string) (*models.EngagementDetail, error) {
	args := m.Called(ctx, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EngagementDetail), args.Error(1)
}

func (m *MockContactCenterClient) GetVoiceRecording(ctx context.Context, engagementID string) (*models.RecordingMetadata, error) {
	args := m.Called(ctx, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecordingMetadata), args.Error(1)
}

func (m *MockContactCenterClient) Download(ctx context.Context, downloadURL string) (io.ReadCloser, error) {
	args := m.Called(ctx, downloadURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// MockContactCenterClientFactory is a mock implementation of domain.ContactCenterClientFactory.
type MockContactCenterClientFactory struct {
	mock.Mock
}

func (m *MockContactCenterClientFactory) ClientFor(credentials models.UpstreamCredentials) domain.ContactCenterClient {
	args := m.Called(credentials)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(domain.ContactCenterClient)
}
