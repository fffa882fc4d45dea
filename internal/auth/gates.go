// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/pressgate/pressgate/internal/apperr"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/models"
)

// apiKeyHeader carries the publisher API key on bridge requests. The
// password rides separately in a Basic Authorization header.
const apiKeyHeader = "apikey"

type contextKey string

const (
	adminClaimsKey     contextKey = "admin_claims"
	publisherClaimsKey contextKey = "publisher_claims"
	readerClaimsKey    contextKey = "reader_claims"
	apiPublisherKey    contextKey = "api_publisher"
)

// AdminFromContext returns the admin claims a gate stored on the request
// context, or nil when the request did not pass the admin gate.
func AdminFromContext(ctx context.Context) *AdminClaims {
	claims, _ := ctx.Value(adminClaimsKey).(*AdminClaims)
	return claims
}

// PublisherFromContext returns the publisher claims stored by either
// publisher gate.
func PublisherFromContext(ctx context.Context) *PublisherClaims {
	claims, _ := ctx.Value(publisherClaimsKey).(*PublisherClaims)
	return claims
}

// ReaderFromContext returns the reader claims stored by the reader gate.
func ReaderFromContext(ctx context.Context) *ReaderClaims {
	claims, _ := ctx.Value(readerClaimsKey).(*ReaderClaims)
	return claims
}

// APIPublisherFromContext returns the publisher authenticated by the
// API-credentials gate.
func APIPublisherFromContext(ctx context.Context) *models.Publisher {
	p, _ := ctx.Value(apiPublisherKey).(*models.Publisher)
	return p
}

// APICredentialSource resolves publisher API credentials for the bridge
// gate. Satisfied by the database store.
type APICredentialSource interface {
	FindPublisherByAPIKey(ctx context.Context, apiKey string) (*models.Publisher, error)
}

// Gates holds the route middleware for every principal kind.
type Gates struct {
	tokens      *TokenManager
	credentials APICredentialSource
}

// NewGates builds the gate set over a token manager and a credential
// source for the API gate.
func NewGates(tokens *TokenManager, credentials APICredentialSource) *Gates {
	return &Gates{tokens: tokens, credentials: credentials}
}

// RequireAdmin admits only requests bearing a valid admin token.
func (g *Gates) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			denyUnauthorized(w, r, "missing bearer token")
			return
		}
		claims, err := g.tokens.VerifyAdminToken(tokenString)
		if err != nil || claims.AdminID == "" {
			denyUnauthorized(w, r, "invalid admin token")
			return
		}
		ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePublisherInitial admits only phase-1 publisher tokens, the ones
// issued against the initial code with hasPassword=false. A full token
// is rejected here: a publisher who already set a password must not hit
// the set-password step again with a long-lived token.
func (g *Gates) RequirePublisherInitial(next http.Handler) http.Handler {
	return g.requirePublisherPhase(next, false)
}

// RequirePublisher admits only full publisher tokens (hasPassword=true).
// Phase-1 tokens cannot reach any publisher operation besides
// set-password.
func (g *Gates) RequirePublisher(next http.Handler) http.Handler {
	return g.requirePublisherPhase(next, true)
}

func (g *Gates) requirePublisherPhase(next http.Handler, wantHasPassword bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			denyUnauthorized(w, r, "missing bearer token")
			return
		}
		claims, err := g.tokens.VerifyPublisherToken(tokenString)
		if err != nil || claims.PublisherID == "" {
			denyUnauthorized(w, r, "invalid publisher token")
			return
		}
		if claims.HasPassword != wantHasPassword {
			denyUnauthorized(w, r, "publisher token phase mismatch")
			return
		}
		ctx := context.WithValue(r.Context(), publisherClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireReader admits only reader tokens whose hasAccess claim is true.
// An EMAIL reader who never verified their address carries
// hasAccess=false and is turned away here.
func (g *Gates) RequireReader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			denyUnauthorized(w, r, "missing bearer token")
			return
		}
		claims, err := g.tokens.VerifyReaderToken(tokenString)
		if err != nil || claims.ReaderID == "" {
			denyUnauthorized(w, r, "invalid reader token")
			return
		}
		if !claims.HasAccess {
			denyUnauthorized(w, r, "reader has no access")
			return
		}
		ctx := context.WithValue(r.Context(), readerClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePublisherAPI authenticates WordPress bridge requests: an API
// key in the apikey header plus the API password in a Basic
// Authorization header. The bridge plugin sends the password raw after
// the Basic prefix; standards-compliant clients send base64
// (user:password). Both shapes are accepted. Every failure mode answers
// the same 401 so probes cannot distinguish an unknown key from a wrong
// password.
func (g *Gates) RequirePublisherAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(apiKeyHeader)
		if apiKey == "" {
			denyUnauthorized(w, r, "missing api key header")
			return
		}
		passwords := basicPasswords(r)
		if len(passwords) == 0 {
			denyUnauthorized(w, r, "missing basic credentials")
			return
		}
		publisher, err := g.credentials.FindPublisherByAPIKey(r.Context(), apiKey)
		if err != nil {
			denyUnauthorized(w, r, "unknown api key")
			return
		}
		if publisher.APIPasswordHash == "" || !checkAnyPassword(publisher.APIPasswordHash, passwords) {
			denyUnauthorized(w, r, "api password mismatch")
			return
		}
		ctx := context.WithValue(r.Context(), apiPublisherKey, publisher)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// basicPasswords returns the API password candidates carried by a Basic
// Authorization header: the raw remainder after the prefix, plus the
// password part of a decodable base64 user:password pair.
func basicPasswords(r *http.Request) []string {
	header := r.Header.Get("Authorization")
	const prefix = "Basic "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return nil
	}
	raw := header[len(prefix):]
	candidates := []string{raw}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if _, password, ok := strings.Cut(string(decoded), ":"); ok {
			candidates = append(candidates, password)
		}
	}
	return candidates
}

func checkAnyPassword(hash string, passwords []string) bool {
	for _, password := range passwords {
		if CheckPassword(hash, password) {
			return true
		}
	}
	return false
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

// denyUnauthorized writes the uniform 401 body. The reason is logged
// server-side only, never surfaced to the client.
func denyUnauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	logging.Ctx(r.Context()).Warn().
		Str("path", r.URL.Path).
		Str("reason", reason).
		Msg("Request rejected by auth gate")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"errorCode": apperr.CodeUnauthorized,
	})
}
