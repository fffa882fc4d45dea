// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package middleware provides the HTTP middleware shared across the API:
// request identity and Prometheus instrumentation. Rate limiting and CORS
// come from chi's ecosystem and are wired in the router.
package middleware

import (
	"net/http"

	"github.com/pressgate/pressgate/internal/logging"
)

// RequestID tags every request with an id for log correlation. An id
// supplied by an upstream proxy is kept; otherwise a new one is minted.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
