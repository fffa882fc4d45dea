// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package apperr defines the domain error taxonomy shared by all services
// and the HTTP layer. Every domain failure carries a stable error code and
// the HTTP status it maps to; handlers serialize it as
// {"errorCode": ..., "details": [...]} without leaking internals.
package apperr

import (
	"errors"
	"strings"
)

// Error codes returned to clients. The set mirrors the platform's public
// API contract; codes are stable and never renamed.
const (
	CodeIncorrectPassword       = "INCORRECT_PASSWORD"
	CodeIncorrectEmail          = "INCORRECT_EMAIL"
	CodeReaderEmailExists       = "READER_WITH_EMAIL_ALREADY_EXISTS"
	CodeReaderDoesNotExist      = "READER_DOES_NOT_EXIST"
	CodeEmailVerificationFailed = "EMAIL_VERIFICATION_FAILED"
	CodeReaderAlreadyHasAccess  = "READER_ALREADY_HAS_ACCESS"
	CodeArticleAlreadyInToRead  = "ARTICLE_HAS_BEEN_ALREADY_ADDED_TO_READ"
	CodeLackOfArticleInToRead   = "LACK_OF_ARTICLE_IN_TO_READ"
	CodeArticleDoesNotExist     = "ARTICLE_DOES_NOT_EXIST"
	CodeArticleAlreadyInReaded  = "ARTICLE_HAS_BEEN_ALREADY_ADDED_READED"
	CodeLackOfArticleInReaded   = "LACK_OF_ARTICLE_IN_READED"
	CodeRegionAlreadyFollowed   = "REGION_ALEADY_FOLLOWED"
	CodeLackOfRegionInFollowed  = "LACK_OF_REGION_IN_FOLLOWED"
	CodeRegionDoesNotExist      = "REGION_DOES_NOT_EXIST"
	CodePublisherDoesNotExist   = "PUBLISHER_DOES_NOT_EXIST"
	CodeIncorrect2FACode        = "INCORRECT_2FA_CODE"
	CodePublisherHasPassword    = "PUBLISHER_ALREADY_HAS_PASSWORD"
	CodeInitialCodeIncorrect    = "INITIAL_CODE_INCORRECT"
	CodeCannotReportOwnArticle  = "CAN_NOT_REPORT_OWN_ARTICLE"
	CodeArticleAlreadyReported  = "ARTICLE_HAS_BEEN_ALREADY_REPORTED"
	CodeLackOfArticleInReported = "LACK_OF_ARTICLE_IN_REPORTED"
	CodeEmailNotSent            = "EMAIL_HAS_NOT_BEEN_SEND"
	CodeAdminDoesNotExist       = "ADMIN_DOES_NOT_EXIST"
	CodeFileUploadError         = "FILE_UPLOAD_ERROR"
	CodeFileResizeError         = "FILE_RESIZE_ERROR"
	CodeFileDoesNotExist        = "FILE_DOES_NOT_EXIST"
	CodeFacebookError           = "FACEBOOK_ERROR"
	CodeHasNotAccess            = "HAS_NOT_ACCESS"
	CodeCannotEditOtherThanOwn  = "CAN_NOT_EDIT_OTHER_THAN_OWN"
	CodeValidationErrors        = "VALIDATION_ERRORS"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeUnexpected              = "UNEXPECTED_ERROR"
)

// Error is a domain error with a client-facing code, the HTTP status it
// maps to, and optional detail strings (e.g. password policy violations).
type Error struct {
	Code    string
	Status  int
	Details []string
}

// New creates a domain error.
func New(code string, status int, details ...string) *Error {
	return &Error{Code: code, Status: status, Details: details}
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Code
	}
	return e.Code + ": " + strings.Join(e.Details, ", ")
}

// Is matches errors by code, so sentinel-style comparisons work:
//
//	errors.Is(err, apperr.New(apperr.CodeArticleDoesNotExist, 404))
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// FieldError is a single field-qualified validation failure, serialized
// as {"field": ..., "message": ...} inside the validation error payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-qualified validation failures. It is
// serialized as {"errorCode": "VALIDATION_ERRORS", "fields": [...]} with
// HTTP status 422.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return CodeValidationErrors + ": " + strings.Join(parts, "; ")
}
