// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/logging"
	"github.com/callstash/cc-recording-service/internal/middleware"
	"github.com/callstash/cc-recording-service/internal/service"
	"github.com/callstash/cc-recording-service/pkg/constants"
)

// recordingAPI serves stored recording bytes to the portal.
type recordingAPI struct {
	engagements *service.EngagementService
	storage     domain.RecordingStorage
	root        string
}

// audioContentTypes maps recording extensions to MIME types.
var audioContentTypes = map[string]string{
	".mp3": "audio/mpeg",
	".wav": "audio/wav",
	".ogg": "audio/ogg",
	".m4a": "audio/mp4",
}

// ServePartitioned serves a plaintext recording by its date-partitioned
// public path, with range support for the portal's audio player.
func (api *recordingAPI) ServePartitioned(c *gin.Context) {
	relative := strings.TrimPrefix(c.Param("filepath"), "/")
	// Reject traversal out of the partition tree.
	clean := filepath.Clean(relative)
	if clean != relative || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recording path"})
		return
	}

	if contentType, ok := audioContentTypes[strings.ToLower(filepath.Ext(clean))]; ok {
		c.Header("Content-Type", contentType)
	}
	http.ServeFile(c.Writer, c.Request, filepath.Join(api.root, clean))
}

// ServeDecoded streams the decoded bytes of an encrypted recording for one
// engagement. ?download=1 turns the response into an attachment.
func (api *recordingAPI) ServeDecoded(c *gin.Context) {
	claims, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no principal"})
		return
	}

	engagementID := c.Param("id")
	record, err := api.engagements.Get(c.Request.Context(), engagementID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if record.TenantID != claims.TenantID {
		c.JSON(http.StatusNotFound, gin.H{"error": "engagement not found"})
		return
	}
	if claims.Role == constants.RoleAgent && !record.HasAgent(claims.Agent) {
		c.JSON(http.StatusNotFound, gin.H{"error": "engagement not found"})
		return
	}
	if record.LocalPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "engagement has no stored recording"})
		return
	}

	stream, err := api.storage.Open(c.Request.Context(), record.LocalPath)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "audio/mpeg")
	if c.Query("download") == "1" {
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", engagementID+".mp3"))
	}
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Headers are gone; all that remains is logging the broken stream.
		slog.WarnContext(c.Request.Context(), "recording stream interrupted",
			logging.ErrKey, err, "engagement_id", engagementID)
	}
}
