// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package auth validates the bearer tokens presented to the review API.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/callstash/cc-recording-service/internal/domain"
)

// Claims carries the identity the review API scopes results by.
type Claims struct {
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	Agent    string `json:"agent,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth validates HS256-signed tokens.
type JWTAuth struct {
	secret []byte
	issuer string
}

// NewJWTAuth creates a validator. An empty secret is a configuration error
// surfaced at startup rather than on the first request.
func NewJWTAuth(secret, issuer string) (*JWTAuth, error) {
	if secret == "" {
		return nil, domain.NewConfigurationError("JWT secret is not configured")
	}
	return &JWTAuth{secret: []byte(secret), issuer: issuer}, nil
}

// ParsePrincipal validates the token signature and expiry and returns its
// claims.
func (a *JWTAuth) ParsePrincipal(_ context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.NewAuthError("unexpected token signing method")
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, domain.NewAuthError("invalid token", err)
	}
	if !token.Valid {
		return nil, domain.NewAuthError("invalid token")
	}
	if a.issuer != "" {
		issuer, err := claims.GetIssuer()
		if err != nil || issuer != a.issuer {
			return nil, domain.NewAuthError("token issuer mismatch")
		}
	}
	if claims.Role == "" {
		return nil, domain.NewAuthError("token is missing a role claim")
	}
	return claims, nil
}

// IssueToken mints a token for the given identity. Used by tests and
// operational tooling; the service itself only validates.
func (a *JWTAuth) IssueToken(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if a.issuer != "" {
		claims.RegisteredClaims.Issuer = a.issuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", domain.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}
