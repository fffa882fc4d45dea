// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package api is the HTTP surface of the platform. It wires the chi
// router, decodes and validates payloads, and translates domain errors
// into the public error contract:
//
//	{"errorCode": "...", "details": [...]}         domain failures
//	{"errorCode": "VALIDATION_ERRORS", "fields": [...]}  bad payloads
//
// Handlers contain no business rules; they parse, delegate to a
// service, and serialize.
package api

import (
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/pressgate/pressgate/internal/apperr"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/validation"
)

// maxBodyBytes caps request payloads. Article content is the largest
// legitimate payload; 2 MiB leaves generous headroom.
const maxBodyBytes = 2 << 20

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

// statusOK is the body of side-effect-only successes.
var statusOK = map[string]string{"status": "ok"}

// respondJSON writes v with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError translates an error into the public error contract.
// Unrecognized errors become an opaque 500 so internals never leak.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"errorCode": apperr.CodeValidationErrors,
			"fields":    verr.Fields,
		})
		return
	}

	var derr *apperr.Error
	if errors.As(err, &derr) {
		body := map[string]interface{}{"errorCode": derr.Code}
		if len(derr.Details) > 0 {
			body["details"] = derr.Details
		}
		respondJSON(w, derr.Status, body)
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).
		Str("path", r.URL.Path).
		Msg("Unhandled error in request")
	respondJSON(w, http.StatusInternalServerError, map[string]string{
		"errorCode": apperr.CodeUnexpected,
	})
}

// decodeAndValidate decodes the JSON body into v and runs struct
// validation. Malformed JSON is reported as a validation failure on the
// body itself.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &apperr.ValidationError{Fields: []apperr.FieldError{
			{Field: "body", Message: "must be valid JSON"},
		}}
	}
	return validation.ValidateStruct(v)
}

// pageParams reads the 1-indexed pagination query parameters, clamping
// to sane bounds.
func pageParams(r *http.Request) (page, perPage int) {
	page = queryInt(r, "page", defaultPage)
	perPage = queryInt(r, "perPage", defaultPerPage)
	if page < 1 {
		page = defaultPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
