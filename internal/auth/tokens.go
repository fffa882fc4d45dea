// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package auth implements the PressGate authorization layer: HS256 token
// issuance and verification for the admin, publisher, and reader claim
// schemas, plus the request gates that guard routes per principal kind.
//
// Tokens are stateless and not revocable; compromising one requires
// rotating the signing secret, which invalidates every outstanding token.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/models"
)

// InitialTokenTTL scopes the phase-1 publisher token (issued against the
// initial code, before a password exists) strictly to the set-password
// step. Deliberately short and not configurable.
const InitialTokenTTL = 5 * time.Minute

// AdminClaims is the claim schema for admin tokens.
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// PublisherClaims is the claim schema for both publisher token phases.
// HasPassword routes the token to exactly one of the two publisher gates:
// false passes only the initial (set-password) gate, true only the normal
// operations gate.
type PublisherClaims struct {
	PublisherID string `json:"publisherId"`
	HasPassword bool   `json:"hasPassword"`
	jwt.RegisteredClaims
}

// ReaderClaims is the claim schema for reader tokens.
type ReaderClaims struct {
	ReaderID  string          `json:"readerId"`
	HasAccess bool            `json:"hasAccess"`
	AuthType  models.AuthType `json:"authType"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed bearer tokens for the three
// JWT claim schemas. Verification is pure: no store lookups, no I/O.
type TokenManager struct {
	secret       []byte
	adminTTL     time.Duration
	publisherTTL time.Duration
	readerTTL    time.Duration
}

// NewTokenManager creates a token manager from the security configuration.
// The secret must be present; config validation enforces its length.
func NewTokenManager(cfg *config.SecurityConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required but was empty")
	}
	return &TokenManager{
		secret:       []byte(cfg.JWTSecret),
		adminTTL:     cfg.AdminTokenTTL,
		publisherTTL: cfg.PublisherTokenTTL,
		readerTTL:    cfg.ReaderTokenTTL,
	}, nil
}

// IssueAdminToken signs a token carrying the admin claim schema.
func (m *TokenManager) IssueAdminToken(adminID string) (string, error) {
	return m.sign(&AdminClaims{
		AdminID:          adminID,
		RegisteredClaims: registeredClaims(m.adminTTL),
	})
}

// IssuePublisherToken signs a token carrying the publisher claim schema.
// Tokens with hasPassword=false get the short InitialTokenTTL; tokens
// with hasPassword=true get the configured publisher TTL.
func (m *TokenManager) IssuePublisherToken(publisherID string, hasPassword bool) (string, error) {
	ttl := m.publisherTTL
	if !hasPassword {
		ttl = InitialTokenTTL
	}
	return m.sign(&PublisherClaims{
		PublisherID:      publisherID,
		HasPassword:      hasPassword,
		RegisteredClaims: registeredClaims(ttl),
	})
}

// IssueReaderToken signs a token carrying the reader claim schema.
func (m *TokenManager) IssueReaderToken(r *models.Reader) (string, error) {
	return m.sign(&ReaderClaims{
		ReaderID:         r.ID,
		HasAccess:        r.HasAccess,
		AuthType:         r.AuthType,
		RegisteredClaims: registeredClaims(m.readerTTL),
	})
}

// VerifyAdminToken verifies signature and expiry and returns the admin
// claims.
func (m *TokenManager) VerifyAdminToken(tokenString string) (*AdminClaims, error) {
	var claims AdminClaims
	if err := m.verify(tokenString, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// VerifyPublisherToken verifies signature and expiry and returns the
// publisher claims. Both token phases decode here; gates discriminate on
// HasPassword.
func (m *TokenManager) VerifyPublisherToken(tokenString string) (*PublisherClaims, error) {
	var claims PublisherClaims
	if err := m.verify(tokenString, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// VerifyReaderToken verifies signature and expiry and returns the reader
// claims.
func (m *TokenManager) VerifyReaderToken(tokenString string) (*ReaderClaims, error) {
	var claims ReaderClaims
	if err := m.verify(tokenString, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (m *TokenManager) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) verify(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

func registeredClaims(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}
