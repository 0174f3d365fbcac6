// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/infrastructure/auth"
	"github.com/callstash/cc-recording-service/internal/middleware"
	"github.com/callstash/cc-recording-service/internal/service"
)

// apiServices groups everything the router needs.
type apiServices struct {
	webhooks    *service.WebhookService
	engagements *service.EngagementService
	credentials *service.CredentialService
	storage     domain.RecordingStorage
	jwtAuth     *auth.JWTAuth
	ready       func() bool
}

// newRouter builds the HTTP surface.
func newRouter(config *Config, services apiServices) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	// Health probes.
	router.GET("/livez", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/readyz", func(c *gin.Context) {
		if !services.ready() {
			c.String(http.StatusServiceUnavailable, "NOT READY")
			return
		}
		c.String(http.StatusOK, "OK")
	})

	// Platform-facing webhook; authenticated by signature, not JWT.
	webhooks := &webhookAPI{webhooks: services.webhooks}
	router.POST("/webhook/contact-center", webhooks.HandleContactCenterWebhook)

	// Plaintext recording files by partition path. Registered only when
	// files are stored unencrypted; encrypted trees are served through the
	// decoding API route instead.
	recordings := &recordingAPI{
		engagements: services.engagements,
		storage:     services.storage,
		root:        config.RecordingsRoot,
	}
	if !config.EncryptRecordings {
		router.GET(config.PublicPathPrefix+"/*filepath", recordings.ServePartitioned)
	}

	// Portal API.
	engagements := &engagementAPI{engagements: services.engagements}
	tenantConfig := &configAPI{credentials: services.credentials}

	api := router.Group("/api", middleware.Authenticated(services.jwtAuth))
	{
		api.GET("/engagements", engagements.ListEngagements)
		api.GET("/engagements/:id", engagements.GetEngagement)
		api.GET("/recordings/:id", recordings.ServeDecoded)

		admin := api.Group("/config", middleware.RequireAdmin())
		{
			admin.PUT("/tenants/:tenantID", tenantConfig.PutTenantCredentials)
			admin.GET("/tenants/:tenantID", tenantConfig.GetTenantCredentials)
		}
	}

	return router
}
