// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pressgate/pressgate/internal/auth"
)

type registerByEmailRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (a *API) handleRegisterByEmail(w http.ResponseWriter, r *http.Request) {
	var req registerByEmailRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := a.readers.RegisterByEmail(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"token": token})
}

type verifyEmailRequest struct {
	EmailVerificationCode string `json:"emailVerificationCode" validate:"required"`
}

func (a *API) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := a.readers.VerifyEmail(r.Context(), req.EmailVerificationCode)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

type loginByEmailRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (a *API) handleLoginByEmail(w http.ResponseWriter, r *http.Request) {
	var req loginByEmailRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := a.readers.LoginByEmail(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

type authByFacebookRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

func (a *API) handleAuthByFacebook(w http.ResponseWriter, r *http.Request) {
	var req authByFacebookRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := a.readers.AuthByFacebook(r.Context(), req.AccessToken)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (a *API) handleToReadArticles(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())
	page, perPage := pageParams(r)

	result, err := a.readers.ToReadArticles(r.Context(), claims.ReaderID, page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (a *API) handleAddToRead(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())
	articleID := chi.URLParam(r, "articleId")

	if err := a.readers.AddToRead(r.Context(), claims.ReaderID, articleID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

func (a *API) handleRemoveToRead(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())
	articleID := chi.URLParam(r, "articleId")

	if err := a.readers.RemoveToRead(r.Context(), claims.ReaderID, articleID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

func (a *API) handleReadedArticles(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())
	page, perPage := pageParams(r)

	result, err := a.readers.ReadedArticles(r.Context(), claims.ReaderID, page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (a *API) handleAddReaded(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())
	articleID := chi.URLParam(r, "articleId")

	if err := a.readers.AddReaded(r.Context(), claims.ReaderID, articleID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

func (a *API) handleRemoveReaded(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())
	articleID := chi.URLParam(r, "articleId")

	if err := a.readers.RemoveReaded(r.Context(), claims.ReaderID, articleID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

func (a *API) handleFollowedRegions(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())

	result, err := a.readers.FollowedRegions(r.Context(), claims.ReaderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"regions": result})
}

func (a *API) handleFollowRegion(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())
	regionID := chi.URLParam(r, "regionId")

	if err := a.readers.FollowRegion(r.Context(), claims.ReaderID, regionID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

func (a *API) handleUnfollowRegion(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())
	regionID := chi.URLParam(r, "regionId")

	if err := a.readers.UnfollowRegion(r.Context(), claims.ReaderID, regionID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

func (a *API) handleFeed(w http.ResponseWriter, r *http.Request) {
	claims := auth.ReaderFromContext(r.Context())
	page, perPage := pageParams(r)

	result, err := a.readers.Feed(r.Context(), claims.ReaderID, page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
