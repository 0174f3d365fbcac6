// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/middleware"
	"github.com/callstash/cc-recording-service/internal/service"
	"github.com/callstash/cc-recording-service/pkg/constants"
)

// engagementAPI is the review portal's read surface.
type engagementAPI struct {
	engagements *service.EngagementService
}

// ListEngagements returns a filtered, paginated page of engagement records.
// Admins see their whole tenant; agents only engagements they participated
// in.
func (api *engagementAPI) ListEngagements(c *gin.Context) {
	claims, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no principal"})
		return
	}

	filter := models.EngagementFilter{
		TenantID:  claims.TenantID,
		Queue:     c.Query("queue"),
		Channel:   c.Query("channel"),
		Direction: c.Query("direction"),
	}
	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' timestamp"})
		return
	}
	filter.From = from
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' timestamp"})
		return
	}
	filter.To = to

	switch claims.Role {
	case constants.RoleAdmin:
		filter.Agent = c.Query("agent")
	case constants.RoleAgent:
		// Agents are pinned to their own engagements regardless of query.
		filter.Agent = claims.Agent
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "unknown role"})
		return
	}

	result, err := api.engagements.List(c.Request.Context(), service.ListRequest{
		Filter:   filter,
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 0),
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"engagements": result.Engagements,
		"page":        result.Page,
		"page_size":   result.PageSize,
		"total":       result.Total,
	})
}

// GetEngagement returns one record, subject to the same role scoping as the
// listing.
func (api *engagementAPI) GetEngagement(c *gin.Context) {
	claims, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no principal"})
		return
	}

	record, err := api.engagements.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	scope := models.EngagementFilter{TenantID: claims.TenantID}
	if claims.Role == constants.RoleAgent {
		scope.Agent = claims.Agent
	}
	if !scope.Matches(record) {
		// Out-of-scope reads look identical to absent records.
		c.JSON(http.StatusNotFound, gin.H{"error": "engagement not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func parseTimeParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value := c.Query(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// respondDomainError maps the error taxonomy onto HTTP statuses.
func respondDomainError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		status = http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		status = http.StatusNotFound
	case domain.ErrorTypeConflict:
		status = http.StatusConflict
	case domain.ErrorTypeUnavailable:
		status = http.StatusServiceUnavailable
	case domain.ErrorTypeAuth:
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
