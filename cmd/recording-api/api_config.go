// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/callstash/cc-recording-service/internal/domain/models"
	"github.com/callstash/cc-recording-service/internal/service"
)

// configAPI manages per-tenant upstream credentials. Admin only.
type configAPI struct {
	credentials *service.CredentialService
}

type tenantCredentialRequest struct {
	ClientID     string `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
	AccountID    string `json:"account_id" binding:"required"`
}

// PutTenantCredentials seals and stores a tenant's upstream credentials and
// invalidates any cached plaintext.
func (api *configAPI) PutTenantCredentials(c *gin.Context) {
	var request tenantCredentialRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id, client_secret and account_id are required"})
		return
	}

	tenantID := c.Param("tenantID")
	err := api.credentials.Store(c.Request.Context(), tenantID, models.UpstreamCredentials{
		ClientID:     request.ClientID,
		ClientSecret: request.ClientSecret,
		AccountID:    request.AccountID,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant_id": tenantID, "configured": true})
}

// GetTenantCredentials returns presence metadata only, never secrets.
func (api *configAPI) GetTenantCredentials(c *gin.Context) {
	status, err := api.credentials.Status(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
