// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package api

import (
	"net/http"

	"github.com/pressgate/pressgate/internal/admins"
)

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (a *API) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := a.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (a *API) handleCreatePublisher(w http.ResponseWriter, r *http.Request) {
	var req admins.CreatePublisherInput
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	publisher, err := a.admins.CreatePublisher(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, publisher.Cleaned())
}

type createAPICredentialsRequest struct {
	PublisherID string `json:"publisherId" validate:"required"`
}

func (a *API) handleCreateAPICredentials(w http.ResponseWriter, r *http.Request) {
	var req createAPICredentialsRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	creds, err := a.publishers.CreateAPICredentials(r.Context(), req.PublisherID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, creds)
}
