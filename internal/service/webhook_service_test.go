// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/mocks"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/infrastructure/webhook"
)

func newWebhookFixture(secret string) (*WebhookService, *mocks.MockIngestionPublisher) {
	publisher := &mocks.MockIngestionPublisher{}
	return NewWebhookService(webhook.NewValidator(secret), publisher), publisher
}

func TestHandleEventEnqueuesIngestionJob(t *testing.T) {
	svc, publisher := newWebhookFixture("")

	var job models.IngestionJobMessage
	publisher.On("PublishIngestionJob", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			job = args.Get(1).(models.IngestionJobMessage)
		}).Return(nil)

	body := []byte(`{
		"event": "contact_center.engagement_ended",
		"event_ts": 1700000000,
		"payload": {"account_id": "acme", "object": {"engagement_id": "eng-1"}}
	}`)
	challenge, err := svc.HandleEvent(context.Background(), body)
	require.NoError(t, err)
	assert.Nil(t, challenge)

	assert.Equal(t, "eng-1", job.EngagementID)
	assert.Equal(t, "acme", job.TenantID)
	assert.NotEmpty(t, job.JobID)
	assert.False(t, job.ReceivedAt.IsZero())
}

func TestHandleEventDefaultsTenant(t *testing.T) {
	svc, publisher := newWebhookFixture("")

	var job models.IngestionJobMessage
	publisher.On("PublishIngestionJob", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			job = args.Get(1).(models.IngestionJobMessage)
		}).Return(nil)

	body := []byte(`{"event": "contact_center.engagement_ended", "payload": {"object": {"engagement_id": "eng-2"}}}`)
	_, err := svc.HandleEvent(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTenantID, job.TenantID)
}

func TestHandleEventDropsMalformedBody(t *testing.T) {
	svc, publisher := newWebhookFixture("")

	challenge, err := svc.HandleEvent(context.Background(), []byte(`{not json`))
	require.NoError(t, err)
	assert.Nil(t, challenge)
	publisher.AssertNotCalled(t, "PublishIngestionJob", mock.Anything, mock.Anything)
}

func TestHandleEventDropsUnknownEvent(t *testing.T) {
	svc, publisher := newWebhookFixture("")

	_, err := svc.HandleEvent(context.Background(),
		[]byte(`{"event": "contact_center.engagement_started", "payload": {"object": {"engagement_id": "eng-3"}}}`))
	require.NoError(t, err)
	publisher.AssertNotCalled(t, "PublishIngestionJob", mock.Anything, mock.Anything)
}

func TestHandleEventDropsMissingEngagementID(t *testing.T) {
	svc, publisher := newWebhookFixture("")

	_, err := svc.HandleEvent(context.Background(),
		[]byte(`{"event": "contact_center.engagement_ended", "payload": {"object": {}}}`))
	require.NoError(t, err)
	publisher.AssertNotCalled(t, "PublishIngestionJob", mock.Anything, mock.Anything)
}

func TestHandleEventEnqueueFailurePropagates(t *testing.T) {
	svc, publisher := newWebhookFixture("")
	publisher.On("PublishIngestionJob", mock.Anything, mock.Anything).
		Return(domain.NewUnavailableError("nats down"))

	_, err := svc.HandleEvent(context.Background(),
		[]byte(`{"event": "contact_center.engagement_ended", "payload": {"object": {"engagement_id": "eng-4"}}}`))
	require.Error(t, err)
}

func TestHandleEventURLValidationChallenge(t *testing.T) {
	svc, publisher := newWebhookFixture("test-secret")

	challenge, err := svc.HandleEvent(context.Background(),
		[]byte(`{"event": "endpoint.url_validation", "payload": {"plainToken": "abc123"}}`))
	require.NoError(t, err)
	require.NotNil(t, challenge)

	assert.Equal(t, "abc123", challenge.PlainToken)
	assert.Equal(t, webhook.NewValidator("test-secret").SignToken("abc123"), challenge.EncryptedToken)
	publisher.AssertNotCalled(t, "PublishIngestionJob", mock.Anything, mock.Anything)
}
