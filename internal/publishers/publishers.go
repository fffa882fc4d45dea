// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package publishers implements the publisher tenant lifecycle: the
// two-phase login (one-time initial code, then password plus TOTP), the
// set-password step, API credentials for the WordPress bridge, and the
// public publisher directory.
package publishers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pressgate/pressgate/internal/apperr"
	"github.com/pressgate/pressgate/internal/auth"
	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/database"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/models"
)

// minPasswordLength is the floor for publisher passwords.
const minPasswordLength = 8

// Password policy detail strings, reported inside INCORRECT_PASSWORD.
const (
	DetailPasswordTooShort    = "PASSWORD_TOO_SHORT"
	DetailPasswordsDoNotMatch = "PASSWORDS_DOES_NOT_MATCH"
)

// Service implements publisher operations.
type Service struct {
	store      *database.Store
	tokens     *auth.TokenManager
	totpIssuer string
}

// NewService creates the publisher service.
func NewService(store *database.Store, tokens *auth.TokenManager, cfg *config.SecurityConfig) *Service {
	return &Service{store: store, tokens: tokens, totpIssuer: cfg.TOTPIssuer}
}

// LoginResult is the outcome of a successful login. HasPassword tells
// the client whether the token is a short-lived set-password token or a
// full session.
type LoginResult struct {
	Token       string `json:"token"`
	HasPassword bool   `json:"hasPassword"`
}

// Login authenticates a publisher. Before onboarding completes (no
// password set) the password field must carry the mailed initial code
// and the result is a short-lived token valid only for set-password.
// After onboarding, login takes the bcrypt password plus a current TOTP
// code.
func (s *Service) Login(ctx context.Context, emailAddr, password, totpCode string) (*LoginResult, error) {
	publisher, err := s.store.FindPublisherByEmail(ctx, emailAddr)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.New(apperr.CodePublisherDoesNotExist, http.StatusNotFound)
		}
		return nil, err
	}

	if !publisher.HasPassword() {
		if publisher.InitialCode == "" || !auth.ConstantTimeEquals(publisher.InitialCode, password) {
			return nil, apperr.New(apperr.CodeInitialCodeIncorrect, http.StatusUnprocessableEntity)
		}
		token, err := s.tokens.IssuePublisherToken(publisher.ID, false)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, HasPassword: false}, nil
	}

	if !auth.CheckPassword(publisher.PasswordHash, password) {
		return nil, apperr.New(apperr.CodeIncorrectPassword, http.StatusUnprocessableEntity)
	}
	if !auth.ValidateTOTPCode(totpCode, publisher.SecondFactorSecret) {
		return nil, apperr.New(apperr.CodeIncorrect2FACode, http.StatusUnprocessableEntity)
	}

	token, err := s.tokens.IssuePublisherToken(publisher.ID, true)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, HasPassword: true}, nil
}

// SetPassword completes onboarding: it stores the password hash, mints
// the TOTP secret, and invalidates the initial code. The secret is
// returned exactly once; subsequent logins require a code derived from
// it. Calling this on an onboarded account fails regardless of token
// phase.
func (s *Service) SetPassword(ctx context.Context, publisherID, password, repeatPassword string) (string, error) {
	if err := checkPasswordPolicy(password, repeatPassword); err != nil {
		return "", err
	}

	publisher, err := s.store.GetPublisher(ctx, publisherID)
	if err != nil {
		if database.IsNotFound(err) {
			return "", apperr.New(apperr.CodePublisherDoesNotExist, http.StatusNotFound)
		}
		return "", err
	}
	if publisher.HasPassword() {
		return "", apperr.New(apperr.CodePublisherHasPassword, http.StatusConflict)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	secret, err := auth.GenerateTOTPSecret(s.totpIssuer, publisher.Email)
	if err != nil {
		return "", err
	}

	_, err = s.store.UpdatePublisher(ctx, publisherID, func(p *models.Publisher) error {
		if p.HasPassword() {
			return apperr.New(apperr.CodePublisherHasPassword, http.StatusConflict)
		}
		p.PasswordHash = hash
		p.SecondFactorSecret = secret
		p.InitialCode = ""
		return nil
	})
	if err != nil {
		return "", err
	}

	logging.Ctx(ctx).Info().Str("publisher_id", publisherID).Msg("Publisher completed onboarding")
	return secret, nil
}

// APICredentials is the one-time plaintext credential pair for the
// WordPress bridge.
type APICredentials struct {
	APIKey      string `json:"apiKey"`
	APIPassword string `json:"apiPassword"`
}

// CreateAPICredentials mints a fresh API key and password for a
// publisher, replacing any previous pair. Only the password's hash is
// stored, so the plaintext in the result is unrecoverable afterwards.
func (s *Service) CreateAPICredentials(ctx context.Context, publisherID string) (*APICredentials, error) {
	apiKey := uuid.NewString()
	apiPassword, err := auth.GenerateAPIPassword()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(apiPassword)
	if err != nil {
		return nil, err
	}

	_, err = s.store.UpdatePublisher(ctx, publisherID, func(p *models.Publisher) error {
		p.APIKey = apiKey
		p.APIPasswordHash = hash
		return nil
	})
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.New(apperr.CodePublisherDoesNotExist, http.StatusNotFound)
		}
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("publisher_id", publisherID).Msg("Publisher API credentials rotated")
	return &APICredentials{APIKey: apiKey, APIPassword: apiPassword}, nil
}

// UpdateProfileInput carries the mutable profile fields. Nil pointers
// leave the field untouched.
type UpdateProfileInput struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Authors      *[]string `json:"authors"`
	LogoURL      *string   `json:"logoUrl"`
	PatroniteURL *string   `json:"patroniteUrl"`
	FacebookURL  *string   `json:"facebookUrl"`
	TwitterURL   *string   `json:"twitterUrl"`
	WWW          *string   `json:"www"`
}

// UpdateProfile applies a partial profile update and returns the public
// projection.
func (s *Service) UpdateProfile(ctx context.Context, publisherID string, in *UpdateProfileInput) (*models.CleanedPublisher, error) {
	updated, err := s.store.UpdatePublisher(ctx, publisherID, func(p *models.Publisher) error {
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Authors != nil {
			p.Authors = *in.Authors
		}
		if in.LogoURL != nil {
			p.LogoURL = *in.LogoURL
		}
		if in.PatroniteURL != nil {
			p.PatroniteURL = *in.PatroniteURL
		}
		if in.FacebookURL != nil {
			p.FacebookURL = *in.FacebookURL
		}
		if in.TwitterURL != nil {
			p.TwitterURL = *in.TwitterURL
		}
		if in.WWW != nil {
			p.WWW = *in.WWW
		}
		return nil
	})
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.New(apperr.CodePublisherDoesNotExist, http.StatusNotFound)
		}
		return nil, err
	}
	cleaned := updated.Cleaned()
	return &cleaned, nil
}

// Get returns one publisher's public projection.
func (s *Service) Get(ctx context.Context, id string) (*models.CleanedPublisher, error) {
	publisher, err := s.store.GetPublisher(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.New(apperr.CodePublisherDoesNotExist, http.StatusNotFound)
		}
		return nil, err
	}
	cleaned := publisher.Cleaned()
	return &cleaned, nil
}

// List returns every publisher's public projection, oldest first.
func (s *Service) List(ctx context.Context) ([]models.CleanedPublisher, error) {
	publishers, err := s.store.ListPublishers(ctx)
	if err != nil {
		return nil, err
	}
	cleaned := make([]models.CleanedPublisher, 0, len(publishers))
	for i := range publishers {
		cleaned = append(cleaned, publishers[i].Cleaned())
	}
	return cleaned, nil
}

func checkPasswordPolicy(password, repeatPassword string) error {
	var details []string
	if len(password) < minPasswordLength {
		details = append(details, DetailPasswordTooShort)
	}
	if password != repeatPassword {
		details = append(details, DetailPasswordsDoNotMatch)
	}
	if len(details) > 0 {
		return apperr.New(apperr.CodeIncorrectPassword, http.StatusUnprocessableEntity, details...)
	}
	return nil
}
