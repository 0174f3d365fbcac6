// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
)

// newTestServer serves a token endpoint plus the given API handler.
func newTestServer(t *testing.T, apiHandler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "test-client" || pass != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		if r.URL.Query().Get("grant_type") != "account_credentials" && r.FormValue("grant_type") != "account_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"unsupported_grant_type"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/", apiHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		Credentials: models.UpstreamCredentials{
			ClientID:     "test-client",
			ClientSecret: "test-secret",
			AccountID:    "acct-1",
		},
		BaseURL:        srv.URL,
		AuthURL:        srv.URL + "/oauth/token",
		MaxRetries:     1,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	})
	return srv, client
}

func TestClient_GetEngagement(t *testing.T) {
	detail := models.EngagementDetail{
		EngagementID: "E123",
		Direction:    models.DirectionInbound,
		StartTime:    time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
		Channel:      "voice",
		Duration:     120,
	}

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contact_center/engagements/E123", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(detail)
	})

	got, err := client.GetEngagement(context.Background(), "E123")
	require.NoError(t, err)
	assert.Equal(t, "E123", got.EngagementID)
	assert.Equal(t, models.DirectionInbound, got.Direction)
	assert.Equal(t, 120, got.Duration)
}

func TestClient_GetEngagement_NotFound(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":3301,"message":"Engagement does not exist"}`))
	})

	_, err := client.GetEngagement(context.Background(), "E404")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestClient_GetEngagement_ServerError(t *testing.T) {
	calls := 0
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetEngagement(context.Background(), "E500")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUpstream, domain.GetErrorType(err))
	assert.Equal(t, 2, calls, "5xx should be retried at the transport level")
}

func TestClient_GetVoiceRecording(t *testing.T) {
	tests := []struct {
		name       string
		response   recordingListResponse
		wantErr    bool
		wantIsNone bool
		wantURL    string
	}{
		{
			name: "voice entry selected",
			response: recordingListResponse{
				Recordings: []models.RecordingMetadata{
					{RecordingID: "r1", Channel: "chat", DownloadURL: "https://dl/chat"},
					{RecordingID: "r2", Channel: "voice", DownloadURL: "https://dl/voice", FileExtension: "mp3"},
				},
			},
			wantURL: "https://dl/voice",
		},
		{
			name:       "empty list",
			response:   recordingListResponse{},
			wantErr:    true,
			wantIsNone: true,
		},
		{
			name: "only non-voice channels",
			response: recordingListResponse{
				Recordings: []models.RecordingMetadata{
					{RecordingID: "r1", Channel: "chat"},
					{RecordingID: "r2", Channel: "video"},
				},
			},
			wantErr:    true,
			wantIsNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/contact_center/engagements/E123/recordings", r.URL.Path)
				_ = json.NewEncoder(w).Encode(tt.response)
			})

			rec, err := client.GetVoiceRecording(context.Background(), "E123")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantIsNone, errors.Is(err, domain.ErrNoRecordingFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, rec.DownloadURL)
		})
	}
}

func TestClient_GetVoiceRecording_NotReady(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetVoiceRecording(context.Background(), "E123")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	assert.False(t, errors.Is(err, domain.ErrNoRecordingFound))
}

func TestClient_Download(t *testing.T) {
	payload := []byte("mp3-bytes")
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/download/rec-1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write(payload)
	})

	body, err := client.Download(context.Background(), srv.URL+"/download/rec-1")
	require.NoError(t, err)
	defer body.Close()

	buf := make([]byte, 64)
	n, _ := body.Read(buf)
	assert.Equal(t, payload, buf[:n])
}

func TestClient_AuthError(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("API must not be reached when the token exchange fails")
	})

	client := NewClient(Config{
		Credentials: models.UpstreamCredentials{
			ClientID:     "wrong-client",
			ClientSecret: "wrong-secret",
			AccountID:    "acct-1",
		},
		BaseURL:        srv.URL,
		AuthURL:        srv.URL + "/oauth/token",
		MaxRetries:     1,
		InitialBackoff: time.Millisecond,
	})

	_, err := client.GetEngagement(context.Background(), "E123")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeAuth, domain.GetErrorType(err))
}
