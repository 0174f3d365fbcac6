// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// The recording-api service ingests contact-center engagement recordings
// and serves the review portal API.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/handlers"
	"github.com/callstash/cc-recording-service/internal/infrastructure/auth"
	"github.com/callstash/cc-recording-service/internal/infrastructure/messaging"
	"github.com/callstash/cc-recording-service/internal/infrastructure/secrets"
	"github.com/callstash/cc-recording-service/internal/infrastructure/storage"
	"github.com/callstash/cc-recording-service/internal/infrastructure/store"
	"github.com/callstash/cc-recording-service/internal/infrastructure/webhook"
	zoomapi "github.com/callstash/cc-recording-service/internal/infrastructure/zoom/api"
	"github.com/callstash/cc-recording-service/internal/logging"
	"github.com/callstash/cc-recording-service/internal/service"
	"github.com/callstash/cc-recording-service/pkg/concurrent"
)

func main() {
	logging.InitStructuredLogConfig()

	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, config); err != nil {
		slog.With(logging.PriorityCritical()).Error("service exited", logging.ErrKey, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config *Config) error {
	sealer, err := secrets.NewSealer(config.SecretPassphrase)
	if err != nil {
		return err
	}

	// NATS: messaging plus the JetStream KV buckets backing the stores.
	natsConn, err := nats.Connect(config.NatsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return domain.NewUnavailableError("failed to connect to NATS", err)
	}
	defer natsConn.Close()

	js, err := jetstream.New(natsConn)
	if err != nil {
		return domain.NewUnavailableError("failed to create JetStream context", err)
	}

	engagementKV, err := ensureKVBucket(ctx, js, store.KVStoreNameEngagements)
	if err != nil {
		return err
	}
	credentialKV, err := ensureKVBucket(ctx, js, store.KVStoreNameTenantCredentials)
	if err != nil {
		return err
	}

	engagementRepo := store.NewNatsEngagementRepository(engagementKV)
	credentialRepo := store.NewNatsTenantCredentialRepository(credentialKV)
	publisher := messaging.NewNatsPublisher(natsConn)

	var recordingStorage domain.RecordingStorage
	if config.EncryptRecordings {
		recordingStorage = storage.NewEncryptedStorage(config.RecordingsRoot, sealer)
	} else {
		recordingStorage = storage.NewLocalStorage(config.RecordingsRoot, config.PublicPathPrefix)
	}

	credentialService := service.NewCredentialService(credentialRepo, sealer, models.UpstreamCredentials{
		ClientID:     config.UpstreamClientID,
		ClientSecret: config.UpstreamClientSecret,
		AccountID:    config.UpstreamAccountID,
	})
	ingestionService := service.NewIngestionService(
		credentialService,
		zoomapi.NewFactory(config.UpstreamBaseURL, config.UpstreamAuthURL),
		recordingStorage,
		engagementRepo,
		service.IngestionConfig{
			MaxAttempts:  config.IngestMaxAttempts,
			PollInterval: config.IngestPollInterval,
		},
	)
	engagementService := service.NewEngagementService(engagementRepo)
	webhookService := service.NewWebhookService(
		webhook.NewValidator(config.WebhookSecretToken), publisher)

	jwtAuth, err := auth.NewJWTAuth(config.JWTSecret, config.JWTIssuer)
	if err != nil {
		return err
	}

	// Ingestion worker side: queue subscription feeding a bounded pool.
	pool := concurrent.NewWorkerPool(config.IngestWorkers)
	ingestionHandler := handlers.NewIngestionHandler(ingestionService, publisher, pool)
	subscription, err := messaging.QueueSubscribe(ctx, natsConn,
		models.IngestionJobSubject, models.IngestionQueueGroup, ingestionHandler)
	if err != nil {
		return err
	}

	router := newRouter(config, apiServices{
		webhooks:    webhookService,
		engagements: engagementService,
		credentials: credentialService,
		storage:     recordingStorage,
		jwtAuth:     jwtAuth,
		ready: func() bool {
			return natsConn.IsConnected() && engagementRepo.IsReady() && credentialRepo.IsReady()
		},
	})

	httpServer := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signalCh:
		slog.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		return domain.NewInternalError("http server failed", err)
	}

	// Stop intake first, then drain: unsubscribe so no new jobs arrive,
	// close the HTTP listener, wait for in-flight ingestions.
	if err := subscription.Drain(); err != nil {
		slog.Warn("failed to drain subscription", logging.ErrKey, err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown incomplete", logging.ErrKey, err)
	}

	pool.Wait()
	slog.Info("shutdown complete")
	return nil
}

// ensureKVBucket opens a KV bucket, creating it on first run.
func ensureKVBucket(ctx context.Context, js jetstream.JetStream, bucket string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, bucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, domain.NewUnavailableError("failed to open KV bucket "+bucket, err)
	}
	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket, History: 1})
	if err != nil {
		return nil, domain.NewUnavailableError("failed to create KV bucket "+bucket, err)
	}
	return kv, nil
}
