// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// MockRecordingStorage is a mock implementation of domain.RecordingStorage.
type MockRecordingStorage struct {
	mock.Mock
}

func (m *MockRecordingStorage) Plan(startTime time.Time, engagementID, extension string) domain.RecordingLocation {
	args := m.Called(startTime, engagementID, extension)
	return args.Get(0).(domain.RecordingLocation)
}

func (m *MockRecordingStorage) Save(ctx context.Context, location domain.RecordingLocation, r io.Reader) (int64, error) {
	args := m.Called(ctx, location, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordingStorage) Open(ctx context.Context, localPath string) (io.ReadCloser, error) {
	args := m.Called(ctx, localPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// MockIngestionPublisher is a mock implementation of domain.IngestionPublisher.
type MockIngestionPublisher struct {
	mock.Mock
}

func (m *MockIngestionPublisher) PublishIngestionJob(ctx context.Context, job models.IngestionJobMessage) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockIngestionPublisher) PublishIngestionDLQ(ctx context.Context, msg models.IngestionDLQMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
