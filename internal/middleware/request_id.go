// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package middleware provides the gin middleware chain for the HTTP
// surface: request ids, request logging, and portal authentication.
package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/callstash/cc-recording-service/internal/logging"
	"github.com/callstash/cc-recording-service/pkg/constants"
)

// RequestID ensures every request carries an id, honoring one supplied by
// the caller, and threads it through the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logging.AppendCtx(c.Request.Context(), slog.String("request_id", requestID))
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(constants.RequestIDContextID), requestID)
		c.Header(constants.RequestIDHeader, requestID)

		c.Next()
	}
}
