// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/callstash/cc-recording-service/internal/infrastructure/auth"
	"github.com/callstash/cc-recording-service/internal/logging"
	"github.com/callstash/cc-recording-service/pkg/constants"
)

// Authenticated validates the bearer token and stores the claims on the gin
// context for the handlers to scope by.
func Authenticated(jwtAuth *auth.JWTAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.AuthorizationHeader)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := jwtAuth.ParsePrincipal(c.Request.Context(), token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rejected portal token", logging.ErrKey, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(string(constants.PrincipalContextID), claims)
		c.Set(string(constants.RoleContextID), claims.Role)
		c.Set(string(constants.TenantContextID), claims.TenantID)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. It must run after Authenticated.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(constants.RoleContextID)) != constants.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated claims stored by Authenticated.
func PrincipalFrom(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(string(constants.PrincipalContextID))
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
