// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"io"

	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// ContactCenterClient talks to the upstream contact-center API on behalf of
// one tenant. Implementations handle token acquisition internally via the
// client-credentials grant; a rejected exchange surfaces as an auth error on
// the first API call.
type ContactCenterClient interface {
	// GetEngagement fetches the full engagement resource. A 404 maps to a
	// not-found error, other non-2xx responses to an upstream error.
	GetEngagement(ctx context.Context, engagementID string) (*models.EngagementDetail, error)

	// GetVoiceRecording fetches the engagement's recording list and selects
	// the voice-channel entry. An empty list or one with no voice entry
	// returns ErrNoRecordingFound; a 404 on the engagement itself returns a
	// not-found error, the upstream "recording not yet materialized" signal.
	GetVoiceRecording(ctx context.Context, engagementID string) (*models.RecordingMetadata, error)

	// Download opens the signed recording URL as an authenticated byte
	// stream. The caller owns the returned reader.
	Download(ctx context.Context, downloadURL string) (io.ReadCloser, error)
}

// ContactCenterClientFactory builds a client for a tenant's resolved
// credentials. Clients are cheap to construct; the factory exists so the
// orchestrator can be tested without the real transport.
type ContactCenterClientFactory interface {
	ClientFor(credentials models.UpstreamCredentials) ContactCenterClient
}
