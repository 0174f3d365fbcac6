// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/callstash/cc-recording-service/internal/domain/mocks"
	"github.com/callstash/cc-recording-service/internal/domain/models"
)

func listFixture() []*models.EngagementRecord {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*models.EngagementRecord{
		{
			EngagementID: "eng-1",
			TenantID:     "acme",
			Queue:        "support",
			Agent:        "Jordan Lee",
			Direction:    models.DirectionInbound,
			StartTime:    base,
		},
		{
			EngagementID: "eng-2",
			TenantID:     "acme",
			Queue:        "sales",
			Agent:        "Jordan Lee, Casey Kim",
			Direction:    models.DirectionOutbound,
			StartTime:    base.Add(2 * time.Hour),
		},
		{
			EngagementID: "eng-3",
			TenantID:     "acme",
			Queue:        "support",
			Agent:        "Casey Kim",
			Direction:    models.DirectionInbound,
			StartTime:    base.Add(time.Hour),
		},
		{
			EngagementID: "eng-4",
			TenantID:     "globex",
			Queue:        "support",
			Agent:        "Jordan Lee",
			Direction:    models.DirectionInbound,
			StartTime:    base.Add(3 * time.Hour),
		},
	}
}

func newListService(records []*models.EngagementRecord) *EngagementService {
	repo := &mocks.MockEngagementRepository{}
	repo.On("ListAll", mock.Anything).Return(records, nil)
	return NewEngagementService(repo)
}

func TestListFiltersByTenant(t *testing.T) {
	svc := newListService(listFixture())

	result, err := svc.List(context.Background(), ListRequest{
		Filter: models.EngagementFilter{TenantID: "acme"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	for _, record := range result.Engagements {
		assert.Equal(t, "acme", record.TenantID)
	}
}

func TestListSortsByStartTimeDescending(t *testing.T) {
	svc := newListService(listFixture())

	result, err := svc.List(context.Background(), ListRequest{
		Filter: models.EngagementFilter{TenantID: "acme"},
	})
	require.NoError(t, err)
	require.Len(t, result.Engagements, 3)
	assert.Equal(t, "eng-2", result.Engagements[0].EngagementID)
	assert.Equal(t, "eng-3", result.Engagements[1].EngagementID)
	assert.Equal(t, "eng-1", result.Engagements[2].EngagementID)
}

func TestListFiltersByAgentMembership(t *testing.T) {
	svc := newListService(listFixture())

	result, err := svc.List(context.Background(), ListRequest{
		Filter: models.EngagementFilter{TenantID: "acme", Agent: "Casey Kim"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	for _, record := range result.Engagements {
		assert.True(t, record.HasAgent("Casey Kim"))
	}
}

func TestListFiltersByQueueDirectionAndWindow(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newListService(listFixture())

	result, err := svc.List(context.Background(), ListRequest{
		Filter: models.EngagementFilter{
			TenantID:  "acme",
			Queue:     "support",
			Direction: models.DirectionInbound,
			From:      base.Add(30 * time.Minute),
			To:        base.Add(90 * time.Minute),
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "eng-3", result.Engagements[0].EngagementID)
}

func TestListPagination(t *testing.T) {
	records := make([]*models.EngagementRecord, 0, 120)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		records = append(records, &models.EngagementRecord{
			EngagementID: fmt.Sprintf("eng-%03d", i),
			TenantID:     "acme",
			StartTime:    base.Add(time.Duration(i) * time.Minute),
		})
	}
	svc := newListService(records)
	ctx := context.Background()

	// Default page size.
	result, err := svc.List(ctx, ListRequest{})
	require.NoError(t, err)
	assert.Len(t, result.Engagements, DefaultPageSize)
	assert.Equal(t, 120, result.Total)

	// Second page picks up where the first left off.
	page2, err := svc.List(ctx, ListRequest{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Engagements, DefaultPageSize)
	assert.Equal(t, result.Engagements[DefaultPageSize-1].StartTime.Add(-time.Minute),
		page2.Engagements[0].StartTime)

	// Size above the cap clamps.
	capped, err := svc.List(ctx, ListRequest{PageSize: 10_000})
	require.NoError(t, err)
	assert.Len(t, capped.Engagements, 120)
	assert.Equal(t, MaxPageSize, capped.PageSize)

	// Past the end is empty, not an error.
	far, err := svc.List(ctx, ListRequest{Page: 50})
	require.NoError(t, err)
	assert.Empty(t, far.Engagements)
}

func TestGetRequiresID(t *testing.T) {
	svc := newListService(nil)
	_, err := svc.Get(context.Background(), "")
	require.Error(t, err)
}
