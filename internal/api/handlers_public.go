// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/pressgate/pressgate/internal/apperr"
)

// handleListArticles serves the public catalog: only accessible
// articles, optionally narrowed by region or publisher.
func (a *API) handleListArticles(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	regionID := r.URL.Query().Get("regionId")
	publisherID := r.URL.Query().Get("publisherId")

	result, err := a.articles.QueryPublic(r.Context(), regionID, publisherID, page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleRegionArticles serves the catalog scoped to one region by path.
func (a *API) handleRegionArticles(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	regionID := chi.URLParam(r, "regionId")

	result, err := a.articles.QueryPublic(r.Context(), regionID, "", page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handlePublisherArticles serves the catalog scoped to one publisher.
func (a *API) handlePublisherArticles(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	publisherID := chi.URLParam(r, "publisherId")

	result, err := a.articles.QueryPublic(r.Context(), "", publisherID, page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (a *API) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "articleId")

	article, err := a.articles.Get(r.Context(), articleID, true)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

func (a *API) handleListRegions(w http.ResponseWriter, r *http.Request) {
	result, err := a.regions.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"regions": result})
}

func (a *API) handleListPublishers(w http.ResponseWriter, r *http.Request) {
	result, err := a.publishers.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"publishers": result})
}

func (a *API) handleGetPublisher(w http.ResponseWriter, r *http.Request) {
	publisherID := chi.URLParam(r, "publisherId")

	publisher, err := a.publishers.Get(r.Context(), publisherID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, publisher)
}

// handleGetImage streams a stored image. http.ServeContent handles
// range requests and conditional gets from the file's mod time.
func (a *API) handleGetImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	f, modTime, err := a.images.Open(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respondError(w, r, apperr.New(apperr.CodeFileDoesNotExist, http.StatusNotFound))
			return
		}
		respondError(w, r, err)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, filename, modTime, f)
}
