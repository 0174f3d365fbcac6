// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package api implements the contact-center platform API client: OAuth
// server-to-server token exchange, engagement and recording reads, and
// recording byte streaming.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/logging"
)

const (
	// BaseURL is the contact-center API root.
	BaseURL = "https://api.zoom.us/v2"
	// AuthURL is the OAuth token endpoint.
	AuthURL = "https://zoom.us/oauth/token"

	// DefaultClientTimeout bounds every request, including recording
	// downloads; a hung transfer fails rather than stalling an ingestion
	// forever.
	DefaultClientTimeout = 2 * time.Minute

	// Transport-level retry defaults for 5xx/429. Distinct from the
	// recording-readiness retry loop, which lives in the ingestion service.
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Config holds the configuration for one tenant's client.
type Config struct {
	Credentials models.UpstreamCredentials

	// Optional overrides for testing.
	BaseURL string
	AuthURL string
	Timeout time.Duration

	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Client is a contact-center API client for one tenant.
type Client struct {
	httpClient  *http.Client
	config      Config
	oauthConfig *clientcredentials.Config
}

var _ domain.ContactCenterClient = (*Client)(nil)

// NewClient creates a client from tenant credentials. The token source uses
// the account_credentials grant the platform requires for server-to-server
// apps, carrying the account id as an endpoint parameter.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = AuthURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	oauthConfig := &clientcredentials.Config{
		ClientID:     config.Credentials.ClientID,
		ClientSecret: config.Credentials.ClientSecret,
		TokenURL:     config.AuthURL,
		EndpointParams: url.Values{
			"grant_type": []string{"account_credentials"},
			"account_id": []string{config.Credentials.AccountID},
		},
		AuthStyle: oauth2.AuthStyleInHeader,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		oauthConfig: oauthConfig,
	}
}

// Factory builds per-tenant clients sharing one endpoint configuration.
type Factory struct {
	baseURL string
	authURL string
}

var _ domain.ContactCenterClientFactory = (*Factory)(nil)

// NewFactory creates a client factory. Empty URLs mean production defaults.
func NewFactory(baseURL, authURL string) *Factory {
	return &Factory{baseURL: baseURL, authURL: authURL}
}

// ClientFor builds a client for the given tenant credentials.
func (f *Factory) ClientFor(credentials models.UpstreamCredentials) domain.ContactCenterClient {
	return NewClient(Config{
		Credentials: credentials,
		BaseURL:     f.baseURL,
		AuthURL:     f.authURL,
	})
}

// authenticatedClient returns an HTTP client that injects the bearer token,
// fetching or refreshing it through the client-credentials grant as needed.
func (c *Client) authenticatedClient(ctx context.Context) *http.Client {
	return &http.Client{
		Timeout: c.config.Timeout,
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: c.oauthConfig.TokenSource(ctx),
		},
	}
}

// shouldRetry reports whether a transport error or status code warrants a
// transport-level retry. Client errors (4xx) never do; the caller decides
// what a 404 means.
func shouldRetry(statusCode int, err error) bool {
	if err != nil {
		if c, ok := err.(interface{ Err() error }); ok {
			if c.Err() == context.Canceled || c.Err() == context.DeadlineExceeded {
				return false
			}
		}
		return true
	}
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	return statusCode == http.StatusTooManyRequests
}

// calculateBackoff returns the delay before retry attempt n, exponential
// with ±25% jitter, capped at MaxBackoff.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	withJitter := time.Duration(backoff + jitter)
	if withJitter < c.config.InitialBackoff {
		withJitter = c.config.InitialBackoff
	}
	return withJitter
}

// doRequest performs an authenticated request with transport-level retry.
// The caller owns the response body.
func (c *Client) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	requestURL := c.config.BaseURL + path
	var lastErr error
	var lastResp *http.Response

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
		if err != nil {
			return nil, domain.NewInternalError("creating upstream request", err)
		}

		start := time.Now()
		resp, err := c.authenticatedClient(ctx).Do(req)
		duration := time.Since(start)

		if err == nil && resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
			if lastResp != nil {
				_ = lastResp.Body.Close()
			}
			slog.DebugContext(ctx, "upstream API request completed",
				"method", method,
				"path", path,
				"status", resp.StatusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
			)
			return resp, nil
		}

		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}
		if lastResp != nil {
			_ = lastResp.Body.Close()
		}
		lastErr, lastResp = err, resp

		// A rejected token exchange is not retried here; the caller
		// decides what to do with an auth failure.
		if !shouldRetry(statusCode, err) || isTokenError(err) {
			break
		}
		if attempt == c.config.MaxRetries {
			slog.ErrorContext(ctx, "upstream API request failed after all retries",
				"method", method,
				"path", path,
				"status", statusCode,
				"attempts", attempt+1,
				logging.ErrKey, err,
			)
			break
		}

		backoff := c.calculateBackoff(attempt)
		slog.WarnContext(ctx, "upstream API request failed, retrying",
			"method", method,
			"path", path,
			"status", statusCode,
			"attempt", attempt+1,
			"backoff", backoff.String(),
			logging.ErrKey, err,
		)

		select {
		case <-ctx.Done():
			if lastResp != nil {
				_ = lastResp.Body.Close()
			}
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if lastErr != nil {
		if lastResp != nil {
			_ = lastResp.Body.Close()
		}
		if isTokenError(lastErr) {
			return nil, domain.NewAuthError("upstream token exchange rejected", lastErr)
		}
		return nil, domain.NewUpstreamError(
			fmt.Sprintf("request failed after %d attempts", c.config.MaxRetries+1), lastErr)
	}
	return lastResp, nil
}

// isTokenError detects a failed client-credentials exchange, which oauth2
// surfaces as a RetrieveError on the transport round trip.
func isTokenError(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}

// parseErrorBody attempts to parse a structured upstream error response.
func parseErrorBody(body []byte) error {
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return fmt.Errorf("upstream API error (code %d): %s", errResp.Code, errResp.Message)
	}
	return fmt.Errorf("upstream API error: %s", string(bytes.TrimSpace(body)))
}

// drainBody reads and closes an error response body for diagnostics.
func drainBody(resp *http.Response) []byte {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
	return body
}
