// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/callstash/cc-recording-service/internal/domain"
)

// Config is the process configuration, populated from the environment.
type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	NatsURL string `envconfig:"NATS_URL" default:"nats://localhost:4222"`

	// RecordingsRoot is the local directory recordings are written under,
	// date-partitioned. PublicPathPrefix is the URL prefix the same
	// partition tree is served from.
	RecordingsRoot   string `envconfig:"RECORDINGS_ROOT" default:"/var/lib/cc-recordings"`
	PublicPathPrefix string `envconfig:"PUBLIC_PATH_PREFIX" default:"/recordings"`

	// EncryptRecordings switches the storage backend to
	// compressed-then-encrypted files served only through the
	// authenticated API.
	EncryptRecordings bool `envconfig:"ENCRYPT_RECORDINGS" default:"false"`

	// SecretPassphrase seals tenant credentials at rest and, when
	// EncryptRecordings is on, the recording files themselves.
	SecretPassphrase string `envconfig:"SECRET_PASSPHRASE" required:"true"`

	// WebhookSecretToken validates inbound webhook signatures. Empty
	// disables validation (local development only).
	WebhookSecretToken string `envconfig:"WEBHOOK_SECRET_TOKEN"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer string `envconfig:"JWT_ISSUER" default:"cc-recording-service"`

	// Upstream contact-center API. The fallback credentials serve tenants
	// with no stored configuration; all three must be set for the fallback
	// to be usable.
	UpstreamBaseURL      string `envconfig:"UPSTREAM_BASE_URL" default:"https://api.zoom.us/v2"`
	UpstreamAuthURL      string `envconfig:"UPSTREAM_AUTH_URL" default:"https://zoom.us/oauth/token"`
	UpstreamClientID     string `envconfig:"UPSTREAM_CLIENT_ID"`
	UpstreamClientSecret string `envconfig:"UPSTREAM_CLIENT_SECRET"`
	UpstreamAccountID    string `envconfig:"UPSTREAM_ACCOUNT_ID"`

	IngestMaxAttempts  int           `envconfig:"INGEST_MAX_ATTEMPTS" default:"5"`
	IngestPollInterval time.Duration `envconfig:"INGEST_POLL_INTERVAL" default:"10s"`
	IngestWorkers      int           `envconfig:"INGEST_WORKERS" default:"4"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"25s"`
}

// LoadConfig reads and validates the environment configuration.
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, domain.NewConfigurationError("failed to process environment configuration", err)
	}
	return &config, nil
}
