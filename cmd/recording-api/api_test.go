// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/mocks"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/infrastructure/auth"
	"github.com/callstash/cc-recording-service/internal/infrastructure/secrets"
	"github.com/callstash/cc-recording-service/internal/infrastructure/storage"
	"github.com/callstash/cc-recording-service/internal/infrastructure/webhook"
	"github.com/callstash/cc-recording-service/internal/service"
	"github.com/callstash/cc-recording-service/pkg/constants"
)

const (
	testWebhookSecret = "webhook-secret"
	testJWTSecret     = "jwt-secret"
)

type routerFixture struct {
	router         http.Handler
	publisher      *mocks.MockIngestionPublisher
	engagementRepo *mocks.MockEngagementRepository
	credentialRepo *mocks.MockTenantCredentialRepository
	jwtAuth        *auth.JWTAuth
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	sealer, err := secrets.NewSealer("test-passphrase")
	require.NoError(t, err)
	jwtAuth, err := auth.NewJWTAuth(testJWTSecret, "cc-recording-service")
	require.NoError(t, err)

	publisher := &mocks.MockIngestionPublisher{}
	engagementRepo := &mocks.MockEngagementRepository{}
	credentialRepo := &mocks.MockTenantCredentialRepository{}

	config := &Config{
		RecordingsRoot:     t.TempDir(),
		PublicPathPrefix:   "/recordings",
		WebhookSecretToken: testWebhookSecret,
	}
	engagementService := service.NewEngagementService(engagementRepo)
	router := newRouter(config, apiServices{
		webhooks: service.NewWebhookService(
			webhook.NewValidator(testWebhookSecret), publisher),
		engagements: engagementService,
		credentials: service.NewCredentialService(credentialRepo, sealer, models.UpstreamCredentials{}),
		storage:     storage.NewLocalStorage(config.RecordingsRoot, config.PublicPathPrefix),
		jwtAuth:     jwtAuth,
		ready:       func() bool { return true },
	})

	return &routerFixture{
		router:         router,
		publisher:      publisher,
		engagementRepo: engagementRepo,
		credentialRepo: credentialRepo,
		jwtAuth:        jwtAuth,
	}
}

func (f *routerFixture) tokenFor(t *testing.T, role, tenantID, agent string) string {
	t.Helper()
	token, err := f.jwtAuth.IssueToken(auth.Claims{
		Role:     role,
		TenantID: tenantID,
		Agent:    agent,
	}, time.Minute)
	require.NoError(t, err)
	return token
}

func signWebhook(timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(f *routerFixture, body string, signed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/contact-center", strings.NewReader(body))
	if signed {
		timestamp := "1700000000"
		req.Header.Set(constants.WebhookTimestampHeader, timestamp)
		req.Header.Set(constants.WebhookSignatureHeader, signWebhook(timestamp, []byte(body)))
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func TestWebhookRejectsUnsignedDelivery(t *testing.T) {
	f := newRouterFixture(t)

	recorder := postWebhook(f, `{"event":"contact_center.engagement_ended"}`, false)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	f.publisher.AssertNotCalled(t, "PublishIngestionJob", mock.Anything, mock.Anything)
}

func TestWebhookAcknowledgesAndEnqueues(t *testing.T) {
	f := newRouterFixture(t)
	f.publisher.On("PublishIngestionJob", mock.Anything, mock.Anything).Return(nil)

	body := `{"event":"contact_center.engagement_ended","payload":{"account_id":"acme","object":{"engagement_id":"eng-1"}}}`
	recorder := postWebhook(f, body, true)

	assert.Equal(t, http.StatusOK, recorder.Code)
	f.publisher.AssertCalled(t, "PublishIngestionJob", mock.Anything, mock.Anything)
}

func TestWebhookMalformedBodyStillAcknowledged(t *testing.T) {
	f := newRouterFixture(t)

	recorder := postWebhook(f, `{broken`, true)
	assert.Equal(t, http.StatusOK, recorder.Code)
	f.publisher.AssertNotCalled(t, "PublishIngestionJob", mock.Anything, mock.Anything)
}

func TestWebhookURLValidationChallenge(t *testing.T) {
	f := newRouterFixture(t)

	recorder := postWebhook(f, `{"event":"endpoint.url_validation","payload":{"plainToken":"tok-1"}}`, true)
	require.Equal(t, http.StatusOK, recorder.Code)

	var challenge models.URLValidationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &challenge))
	assert.Equal(t, "tok-1", challenge.PlainToken)
	assert.Equal(t, webhook.NewValidator(testWebhookSecret).SignToken("tok-1"), challenge.EncryptedToken)
}

func TestEngagementListRequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/engagements", nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestEngagementListScopesAgents(t *testing.T) {
	f := newRouterFixture(t)
	f.engagementRepo.On("ListAll", mock.Anything).Return([]*models.EngagementRecord{
		{EngagementID: "eng-1", TenantID: "acme", Agent: "Jordan Lee"},
		{EngagementID: "eng-2", TenantID: "acme", Agent: "Casey Kim"},
		{EngagementID: "eng-3", TenantID: "globex", Agent: "Jordan Lee"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/engagements", nil)
	req.Header.Set(constants.AuthorizationHeader,
		"Bearer "+f.tokenFor(t, constants.RoleAgent, "acme", "Jordan Lee"))
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var response struct {
		Engagements []models.EngagementRecord `json:"engagements"`
		Total       int                       `json:"total"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Equal(t, 1, response.Total)
	assert.Equal(t, "eng-1", response.Engagements[0].EngagementID)
}

func TestEngagementGetHidesOtherTenants(t *testing.T) {
	f := newRouterFixture(t)
	f.engagementRepo.On("Get", mock.Anything, "eng-3").
		Return(&models.EngagementRecord{EngagementID: "eng-3", TenantID: "globex"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/engagements/eng-3", nil)
	req.Header.Set(constants.AuthorizationHeader,
		"Bearer "+f.tokenFor(t, constants.RoleAdmin, "acme", ""))
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestTenantConfigRequiresAdmin(t *testing.T) {
	f := newRouterFixture(t)

	body := `{"client_id":"a","client_secret":"b","account_id":"c"}`
	req := httptest.NewRequest(http.MethodPut, "/api/config/tenants/acme", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.AuthorizationHeader,
		"Bearer "+f.tokenFor(t, constants.RoleAgent, "acme", "Jordan Lee"))
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestTenantConfigPut(t *testing.T) {
	f := newRouterFixture(t)
	f.credentialRepo.On("Get", mock.Anything, "acme").
		Return(nil, domain.NewNotFoundError("absent"))
	f.credentialRepo.On("Put", mock.Anything, mock.Anything).Return(nil)

	body := `{"client_id":"a","client_secret":"b","account_id":"c"}`
	req := httptest.NewRequest(http.MethodPut, "/api/config/tenants/acme", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.AuthorizationHeader,
		"Bearer "+f.tokenFor(t, constants.RoleAdmin, "acme", ""))
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	f.credentialRepo.AssertCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestHealthEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/livez", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code, path)
	}
}
