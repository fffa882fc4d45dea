// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package readers implements end-user accounts: email registration with
// verification, Facebook delegated auth, the personal to-read and read
// article lists, and region follows with the resulting feed.
package readers

import (
	"context"
	"net/http"
	"net/mail"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pressgate/pressgate/internal/apperr"
	"github.com/pressgate/pressgate/internal/auth"
	"github.com/pressgate/pressgate/internal/database"
	"github.com/pressgate/pressgate/internal/email"
	"github.com/pressgate/pressgate/internal/facebook"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/models"
)

// Service implements reader operations.
type Service struct {
	store  *database.Store
	tokens *auth.TokenManager
	mail   email.Sender
	fb     facebook.Client
}

// NewService creates the reader service.
func NewService(store *database.Store, tokens *auth.TokenManager, mail email.Sender, fb facebook.Client) *Service {
	return &Service{store: store, tokens: tokens, mail: mail, fb: fb}
}

// RegisterByEmail creates an EMAIL reader without access and mails the
// verification link. It returns a token carrying hasAccess=false, so
// the client can show the pending-verification state; the reader gate
// rejects that token until the address is verified. The account exists
// even when delivery fails; the reader can re-register only after the
// stale account is removed, so delivery failures surface loudly.
func (s *Service) RegisterByEmail(ctx context.Context, emailAddr, password string) (string, error) {
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		return "", apperr.New(apperr.CodeIncorrectEmail, http.StatusUnprocessableEntity)
	}
	if _, err := s.store.FindReaderByEmail(ctx, emailAddr); err == nil {
		return "", apperr.New(apperr.CodeReaderEmailExists, http.StatusConflict)
	} else if !database.IsNotFound(err) {
		return "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return "", err
	}

	reader := &models.Reader{
		ID:                    uuid.NewString(),
		AuthType:              models.AuthTypeEmail,
		Email:                 emailAddr,
		PasswordHash:          hash,
		EmailVerificationCode: code,
		HasAccess:             false,
		ToReadArticles:        []string{},
		ReadedArticles:        []string{},
		FollowedRegions:       []string{},
		CreatedAt:             time.Now().UTC(),
	}
	if err := s.store.InsertReader(ctx, reader); err != nil {
		return "", err
	}

	if err := s.mail.SendVerification(ctx, emailAddr, code); err != nil {
		return "", apperr.New(apperr.CodeEmailNotSent, http.StatusInternalServerError)
	}

	logging.Ctx(ctx).Info().Str("reader_id", reader.ID).Msg("Reader registered by email")
	return s.tokens.IssueReaderToken(reader)
}

// VerifyEmail grants access to the EMAIL reader holding the code and
// returns a full token, so the verification deep link logs the reader
// straight in. An unknown code and an already verified account are
// distinct failures: the former looks like a probe, the latter like a
// double-clicked link.
func (s *Service) VerifyEmail(ctx context.Context, code string) (string, error) {
	reader, err := s.store.FindReaderByVerificationCode(ctx, code)
	if err != nil {
		if database.IsNotFound(err) {
			return "", apperr.New(apperr.CodeEmailVerificationFailed, http.StatusForbidden)
		}
		return "", err
	}
	if reader.HasAccess {
		return "", apperr.New(apperr.CodeReaderAlreadyHasAccess, http.StatusConflict)
	}

	verified, err := s.store.UpdateReader(ctx, reader.ID, func(r *models.Reader) error {
		r.HasAccess = true
		r.EmailVerificationCode = ""
		return nil
	})
	if err != nil {
		return "", err
	}

	logging.Ctx(ctx).Info().Str("reader_id", reader.ID).Msg("Reader verified email")
	return s.tokens.IssueReaderToken(verified)
}

// LoginByEmail authenticates an EMAIL reader. Unverified accounts fail
// with HAS_NOT_ACCESS rather than a password error, so the client can
// prompt for the verification mail instead of a retry.
func (s *Service) LoginByEmail(ctx context.Context, emailAddr, password string) (string, error) {
	reader, err := s.store.FindReaderByEmail(ctx, emailAddr)
	if err != nil {
		if database.IsNotFound(err) {
			return "", apperr.New(apperr.CodeReaderDoesNotExist, http.StatusNotFound)
		}
		return "", err
	}
	if !auth.CheckPassword(reader.PasswordHash, password) {
		return "", apperr.New(apperr.CodeIncorrectPassword, http.StatusUnprocessableEntity)
	}
	if !reader.HasAccess {
		return "", apperr.New(apperr.CodeHasNotAccess, http.StatusForbidden)
	}
	return s.tokens.IssueReaderToken(reader)
}

// AuthByFacebook logs a reader in through a Facebook access token,
// creating the account on first sight. Delegated accounts get access
// immediately; there is no address to verify.
func (s *Service) AuthByFacebook(ctx context.Context, accessToken string) (string, error) {
	profile, err := s.fb.FetchProfile(ctx, accessToken)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Facebook profile resolution failed")
		return "", apperr.New(apperr.CodeFacebookError, http.StatusServiceUnavailable)
	}

	reader, err := s.store.FindReaderByFacebookID(ctx, profile.ID)
	if database.IsNotFound(err) {
		reader = &models.Reader{
			ID:              uuid.NewString(),
			AuthType:        models.AuthTypeFacebook,
			Email:           profile.Email,
			FacebookID:      profile.ID,
			HasAccess:       true,
			ToReadArticles:  []string{},
			ReadedArticles:  []string{},
			FollowedRegions: []string{},
			CreatedAt:       time.Now().UTC(),
		}
		if err := s.store.InsertReader(ctx, reader); err != nil {
			return "", err
		}
		logging.Ctx(ctx).Info().Str("reader_id", reader.ID).Msg("Reader created via Facebook")
	} else if err != nil {
		return "", err
	}

	return s.tokens.IssueReaderToken(reader)
}

// AddToRead puts an article on the reader's to-read list.
func (s *Service) AddToRead(ctx context.Context, readerID, articleID string) error {
	if err := s.ensureArticleExists(ctx, articleID); err != nil {
		return err
	}
	return s.mutateList(ctx, readerID, func(r *models.Reader) error {
		if slices.Contains(r.ToReadArticles, articleID) {
			return apperr.New(apperr.CodeArticleAlreadyInToRead, http.StatusConflict)
		}
		r.ToReadArticles = append(r.ToReadArticles, articleID)
		return nil
	})
}

// RemoveToRead takes an article off the to-read list.
func (s *Service) RemoveToRead(ctx context.Context, readerID, articleID string) error {
	return s.mutateList(ctx, readerID, func(r *models.Reader) error {
		idx := slices.Index(r.ToReadArticles, articleID)
		if idx < 0 {
			return apperr.New(apperr.CodeLackOfArticleInToRead, http.StatusConflict)
		}
		r.ToReadArticles = slices.Delete(r.ToReadArticles, idx, idx+1)
		return nil
	})
}

// AddReaded puts an article on the reader's read list.
func (s *Service) AddReaded(ctx context.Context, readerID, articleID string) error {
	if err := s.ensureArticleExists(ctx, articleID); err != nil {
		return err
	}
	return s.mutateList(ctx, readerID, func(r *models.Reader) error {
		if slices.Contains(r.ReadedArticles, articleID) {
			return apperr.New(apperr.CodeArticleAlreadyInReaded, http.StatusConflict)
		}
		r.ReadedArticles = append(r.ReadedArticles, articleID)
		return nil
	})
}

// RemoveReaded takes an article off the read list.
func (s *Service) RemoveReaded(ctx context.Context, readerID, articleID string) error {
	return s.mutateList(ctx, readerID, func(r *models.Reader) error {
		idx := slices.Index(r.ReadedArticles, articleID)
		if idx < 0 {
			return apperr.New(apperr.CodeLackOfArticleInReaded, http.StatusConflict)
		}
		r.ReadedArticles = slices.Delete(r.ReadedArticles, idx, idx+1)
		return nil
	})
}

// FollowRegion subscribes the reader to a region's articles.
func (s *Service) FollowRegion(ctx context.Context, readerID, regionID string) error {
	if _, err := s.store.GetRegion(ctx, regionID); err != nil {
		if database.IsNotFound(err) {
			return apperr.New(apperr.CodeRegionDoesNotExist, http.StatusNotFound)
		}
		return err
	}
	return s.mutateList(ctx, readerID, func(r *models.Reader) error {
		if slices.Contains(r.FollowedRegions, regionID) {
			return apperr.New(apperr.CodeRegionAlreadyFollowed, http.StatusConflict)
		}
		r.FollowedRegions = append(r.FollowedRegions, regionID)
		return nil
	})
}

// UnfollowRegion removes a region subscription.
func (s *Service) UnfollowRegion(ctx context.Context, readerID, regionID string) error {
	return s.mutateList(ctx, readerID, func(r *models.Reader) error {
		idx := slices.Index(r.FollowedRegions, regionID)
		if idx < 0 {
			return apperr.New(apperr.CodeLackOfRegionInFollowed, http.StatusConflict)
		}
		r.FollowedRegions = slices.Delete(r.FollowedRegions, idx, idx+1)
		return nil
	})
}

// ToReadArticles pages through the reader's to-read list. Articles that
// have been deleted or suppressed since they were saved are skipped.
func (s *Service) ToReadArticles(ctx context.Context, readerID string, page, perPage int) (*models.ArticlesPage, error) {
	reader, err := s.getReader(ctx, readerID)
	if err != nil {
		return nil, err
	}
	return s.store.GetArticlesByIDs(ctx, reader.ToReadArticles, page, perPage)
}

// ReadedArticles pages through the reader's read list.
func (s *Service) ReadedArticles(ctx context.Context, readerID string, page, perPage int) (*models.ArticlesPage, error) {
	reader, err := s.getReader(ctx, readerID)
	if err != nil {
		return nil, err
	}
	return s.store.GetArticlesByIDs(ctx, reader.ReadedArticles, page, perPage)
}

// FollowedRegions returns the regions the reader follows.
func (s *Service) FollowedRegions(ctx context.Context, readerID string) ([]models.Region, error) {
	reader, err := s.getReader(ctx, readerID)
	if err != nil {
		return nil, err
	}
	return s.store.GetRegionsByIDs(ctx, reader.FollowedRegions)
}

// Feed pages through accessible articles from the reader's followed
// regions, newest first. An empty follow list yields an empty page, not
// the whole catalog.
func (s *Service) Feed(ctx context.Context, readerID string, page, perPage int) (*models.ArticlesPage, error) {
	reader, err := s.getReader(ctx, readerID)
	if err != nil {
		return nil, err
	}
	if len(reader.FollowedRegions) == 0 {
		return &models.ArticlesPage{Articles: []models.Article{}, CountAll: 0}, nil
	}
	filter := database.ArticleFilter{
		RegionIDs:      reader.FollowedRegions,
		OnlyAccessible: true,
	}
	return s.store.QueryArticles(ctx, filter, page, perPage)
}

func (s *Service) getReader(ctx context.Context, readerID string) (*models.Reader, error) {
	reader, err := s.store.GetReader(ctx, readerID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeReaderDoesNotExist, http.StatusNotFound)
		}
		return nil, err
	}
	return reader, nil
}

func (s *Service) mutateList(ctx context.Context, readerID string, mutate func(*models.Reader) error) error {
	_, err := s.store.UpdateReader(ctx, readerID, mutate)
	if err != nil && database.IsNotFound(err) {
		return apperr.New(apperr.CodeReaderDoesNotExist, http.StatusNotFound)
	}
	return err
}

func (s *Service) ensureArticleExists(ctx context.Context, articleID string) error {
	if _, err := s.store.GetArticle(ctx, articleID); err != nil {
		if database.IsNotFound(err) {
			return apperr.New(apperr.CodeArticleDoesNotExist, http.StatusNotFound)
		}
		return err
	}
	return nil
}
