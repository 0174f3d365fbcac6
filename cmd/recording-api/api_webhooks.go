// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/callstash/cc-recording-service/internal/service"
	"github.com/callstash/cc-recording-service/pkg/constants"
)

// webhookAPI receives contact-center platform deliveries.
type webhookAPI struct {
	webhooks *service.WebhookService
}

// maxWebhookBody bounds how much of a delivery is read; real events are a
// few hundred bytes.
const maxWebhookBody = 1 << 20

// HandleContactCenterWebhook accepts one webhook delivery. The response is
// sent before any ingestion work runs: a valid engagement-ended event is
// acknowledged as soon as its job is enqueued.
func (api *webhookAPI) HandleContactCenterWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if err := api.webhooks.ValidateSignature(body,
		c.GetHeader(constants.WebhookSignatureHeader),
		c.GetHeader(constants.WebhookTimestampHeader),
	); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature validation failed"})
		return
	}

	challenge, err := api.webhooks.HandleEvent(c.Request.Context(), body)
	if err != nil {
		// Only enqueue failures surface: the platform retries on non-2xx.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event could not be queued"})
		return
	}
	if challenge != nil {
		c.JSON(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusOK)
}
