// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"sort"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// Pagination bounds for the review listing.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ListRequest is one review listing query. Page is 1-based.
type ListRequest struct {
	Filter   models.EngagementFilter
	Page     int
	PageSize int
}

// ListResult is one page of the review listing plus total match count.
type ListResult struct {
	Engagements []*models.EngagementRecord
	Page        int
	PageSize    int
	Total       int
}

// EngagementService is the read side of the review portal.
type EngagementService struct {
	repository domain.EngagementRepository
}

// NewEngagementService creates the review read service.
func NewEngagementService(repository domain.EngagementRepository) *EngagementService {
	return &EngagementService{repository: repository}
}

// ServiceReady reports whether the underlying store is usable.
func (s *EngagementService) ServiceReady() bool {
	return s.repository.IsReady()
}

// List returns engagements matching the filter, sorted by start time
// descending, paginated.
func (s *EngagementService) List(ctx context.Context, request ListRequest) (*ListResult, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	all, err := s.repository.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.EngagementRecord, 0, len(all))
	for _, record := range all {
		if request.Filter.Matches(record) {
			matched = append(matched, record)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].StartTime.Equal(matched[j].StartTime) {
			// Stable order for identical start times.
			return matched[i].EngagementID > matched[j].EngagementID
		}
		return matched[i].StartTime.After(matched[j].StartTime)
	})

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &ListResult{
		Engagements: matched[start:end],
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
	}, nil
}

// Get returns a single engagement record by id.
func (s *EngagementService) Get(ctx context.Context, engagementID string) (*models.EngagementRecord, error) {
	if engagementID == "" {
		return nil, domain.NewValidationError("engagement id is required")
	}
	return s.repository.Get(ctx, engagementID)
}
