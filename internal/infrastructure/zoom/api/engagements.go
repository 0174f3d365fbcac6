// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// recordingListResponse is the upstream recording-list envelope. The
// top-level start time is present on some API versions; per-entry start
// times are preferred when set.
type recordingListResponse struct {
	StartTime  string                     `json:"start_time"`
	Recordings []models.RecordingMetadata `json:"recordings"`
}

// GetEngagement fetches the full engagement resource.
// This is a pure API call with no business logic.
func (c *Client) GetEngagement(ctx context.Context, engagementID string) (*models.EngagementDetail, error) {
	path := fmt.Sprintf("/contact_center/engagements/%s", engagementID)
	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewNotFoundError(
			fmt.Sprintf("engagement %s not found upstream", engagementID), parseErrorBody(drainBody(resp)))
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewUpstreamError(
			fmt.Sprintf("fetching engagement %s: status %d", engagementID, resp.StatusCode), parseErrorBody(drainBody(resp)))
	}

	var detail models.EngagementDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, domain.NewUpstreamError("decoding engagement response", err)
	}
	if detail.EngagementID == "" {
		detail.EngagementID = engagementID
	}
	return &detail, nil
}

// GetVoiceRecording fetches the engagement's recordings and selects the
// voice-channel entry. Recordings on other channels are skipped by policy.
// A 404 means the recording has not materialized upstream yet; the
// ingestion retry loop treats that as retryable.
func (c *Client) GetVoiceRecording(ctx context.Context, engagementID string) (*models.RecordingMetadata, error) {
	path := fmt.Sprintf("/contact_center/engagements/%s/recordings", engagementID)
	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewNotFoundError(
			fmt.Sprintf("recordings for engagement %s not available upstream", engagementID), parseErrorBody(drainBody(resp)))
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewUpstreamError(
			fmt.Sprintf("fetching recordings for engagement %s: status %d", engagementID, resp.StatusCode), parseErrorBody(drainBody(resp)))
	}

	var list recordingListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, domain.NewUpstreamError("decoding recording list response", err)
	}

	for i := range list.Recordings {
		rec := &list.Recordings[i]
		if rec.Channel != models.ChannelVoice {
			continue
		}
		return rec, nil
	}
	return nil, domain.NewValidationError(
		fmt.Sprintf("engagement %s has no voice recording", engagementID), domain.ErrNoRecordingFound)
}

// Download opens the signed recording URL as an authenticated byte stream.
// Signed URLs are absolute, so this bypasses the configured base URL but
// still attaches the bearer token.
func (c *Client) Download(ctx context.Context, downloadURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, domain.NewInternalError("creating download request", err)
	}

	resp, err := c.authenticatedClient(ctx).Do(req)
	if err != nil {
		if isTokenError(err) {
			return nil, domain.NewAuthError("upstream token exchange rejected", err)
		}
		return nil, domain.NewUpstreamError("opening recording download stream", err)
	}
	if resp.StatusCode != http.StatusOK {
		body := drainBody(resp)
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.NewNotFoundError("recording download URL not found", parseErrorBody(body))
		}
		return nil, domain.NewUpstreamError(
			fmt.Sprintf("downloading recording: status %d", resp.StatusCode), parseErrorBody(body))
	}
	return resp.Body, nil
}
