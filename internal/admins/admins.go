// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package admins implements platform administration: the seeded admin
// account, admin login, and publisher onboarding.
package admins

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pressgate/pressgate/internal/apperr"
	"github.com/pressgate/pressgate/internal/auth"
	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/database"
	"github.com/pressgate/pressgate/internal/email"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/models"
)

// Service implements admin operations.
type Service struct {
	store  *database.Store
	tokens *auth.TokenManager
	mail   email.Sender
}

// NewService creates the admin service.
func NewService(store *database.Store, tokens *auth.TokenManager, mail email.Sender) *Service {
	return &Service{store: store, tokens: tokens, mail: mail}
}

// EnsureDefaultAdmin seeds the singleton admin account from config when
// the collection is empty. Existing admins are never touched, so a
// changed default password does not rotate a live credential.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, cfg *config.SecurityConfig) error {
	count, err := s.store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}
	admin := &models.Admin{
		ID:           uuid.NewString(),
		Email:        cfg.DefaultAdminEmail,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.InsertAdmin(ctx, admin); err != nil {
		return err
	}

	logging.Info().Str("email", admin.Email).Msg("Seeded default admin account")
	return nil
}

// Login authenticates an admin by email and password and returns a
// signed admin token.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (string, error) {
	admin, err := s.store.FindAdminByEmail(ctx, emailAddr)
	if err != nil {
		if database.IsNotFound(err) {
			return "", apperr.New(apperr.CodeAdminDoesNotExist, http.StatusNotFound)
		}
		return "", err
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		return "", apperr.New(apperr.CodeIncorrectPassword, http.StatusUnprocessableEntity)
	}
	return s.tokens.IssueAdminToken(admin.ID)
}

// CreatePublisher onboards a new publisher tenant: the account is
// created without a password, and a one-time initial code is mailed to
// the publisher's address. A failed delivery surfaces as an error even
// though the account already exists; re-running onboarding for the same
// email is the recovery path.
func (s *Service) CreatePublisher(ctx context.Context, in *CreatePublisherInput) (*models.Publisher, error) {
	code, err := auth.GenerateInitialCode()
	if err != nil {
		return nil, err
	}

	publisher := &models.Publisher{
		ID:           uuid.NewString(),
		Email:        in.Email,
		InitialCode:  code,
		Name:         in.Name,
		Description:  in.Description,
		Authors:      in.Authors,
		LogoURL:      in.LogoURL,
		PatroniteURL: in.PatroniteURL,
		FacebookURL:  in.FacebookURL,
		TwitterURL:   in.TwitterURL,
		WWW:          in.WWW,
		CreatedAt:    time.Now().UTC(),
	}
	if publisher.Authors == nil {
		publisher.Authors = []string{}
	}
	publisher.ArticlesReported = []string{}

	if err := s.store.InsertPublisher(ctx, publisher); err != nil {
		return nil, err
	}

	if err := s.mail.SendInitialCode(ctx, publisher.Email, code); err != nil {
		return nil, apperr.New(apperr.CodeEmailNotSent, http.StatusInternalServerError)
	}

	logging.Ctx(ctx).Info().Str("publisher_id", publisher.ID).Msg("Publisher onboarded")
	return publisher, nil
}

// CreatePublisherInput is the onboarding payload.
type CreatePublisherInput struct {
	Email        string   `json:"email" validate:"required,email"`
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Authors      []string `json:"authors"`
	LogoURL      string   `json:"logoUrl"`
	PatroniteURL string   `json:"patroniteUrl"`
	FacebookURL  string   `json:"facebookUrl"`
	TwitterURL   string   `json:"twitterUrl"`
	WWW          string   `json:"www"`
}
