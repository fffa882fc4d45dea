// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pressgate/pressgate/internal/articles"
	"github.com/pressgate/pressgate/internal/auth"
	"github.com/pressgate/pressgate/internal/publishers"
)

type publisherLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code"`
}

func (a *API) handlePublisherLogin(w http.ResponseWriter, r *http.Request) {
	var req publisherLoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := a.publishers.Login(r.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type setPasswordRequest struct {
	Password       string `json:"password" validate:"required"`
	RepeatPassword string `json:"repeatPassword" validate:"required"`
}

func (a *API) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())

	var req setPasswordRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	secret, err := a.publishers.SetPassword(r.Context(), claims.PublisherID, req.Password, req.RepeatPassword)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"secret2FA": secret})
}

func (a *API) handlePublisherMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())

	publisher, err := a.publishers.Get(r.Context(), claims.PublisherID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, publisher)
}

func (a *API) handleUpdatePublisherProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())

	var req publishers.UpdateProfileInput
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	publisher, err := a.publishers.UpdateProfile(r.Context(), claims.PublisherID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, publisher)
}

func (a *API) handleOwnArticles(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())
	page, perPage := pageParams(r)

	result, err := a.articles.OwnArticles(r.Context(), claims.PublisherID, page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (a *API) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())

	var req articles.Input
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	article, err := a.articles.Create(r.Context(), claims.PublisherID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, article)
}

func (a *API) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())
	articleID := chi.URLParam(r, "articleId")

	var req articles.Input
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	article, err := a.articles.Update(r.Context(), claims.PublisherID, articleID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

func (a *API) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())
	articleID := chi.URLParam(r, "articleId")

	if err := a.articles.Delete(r.Context(), claims.PublisherID, articleID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

func (a *API) handleReportedArticles(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())
	page, perPage := pageParams(r)

	result, err := a.articles.ReportedArticles(r.Context(), claims.PublisherID, page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (a *API) handleReportArticle(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())
	articleID := chi.URLParam(r, "articleId")

	article, err := a.articles.ReportBy(r.Context(), articleID, claims.PublisherID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

func (a *API) handleUndoReportArticle(w http.ResponseWriter, r *http.Request) {
	claims := auth.PublisherFromContext(r.Context())
	articleID := chi.URLParam(r, "articleId")

	article, err := a.articles.UndoReportBy(r.Context(), articleID, claims.PublisherID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

// handleWordpressUpsert is the bridge ingest endpoint; the publisher
// comes from API credentials, not a bearer token.
func (a *API) handleWordpressUpsert(w http.ResponseWriter, r *http.Request) {
	publisher := auth.APIPublisherFromContext(r.Context())

	var req articles.WordpressInput
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	article, err := a.articles.UpsertFromWordpress(r.Context(), publisher.ID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}
