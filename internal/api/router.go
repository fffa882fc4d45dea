// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pressgate/pressgate/internal/admins"
	"github.com/pressgate/pressgate/internal/articles"
	"github.com/pressgate/pressgate/internal/auth"
	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/middleware"
	"github.com/pressgate/pressgate/internal/publishers"
	"github.com/pressgate/pressgate/internal/readers"
	"github.com/pressgate/pressgate/internal/regions"
	"github.com/pressgate/pressgate/internal/storage"
)

// API bundles the services behind the HTTP surface.
type API struct {
	cfg        *config.Config
	gates      *auth.Gates
	admins     *admins.Service
	publishers *publishers.Service
	readers    *readers.Service
	articles   *articles.Service
	regions    *regions.Service
	images     *storage.Service
}

// New creates the API over its services.
func New(
	cfg *config.Config,
	gates *auth.Gates,
	adminSvc *admins.Service,
	publisherSvc *publishers.Service,
	readerSvc *readers.Service,
	articleSvc *articles.Service,
	regionSvc *regions.Service,
	images *storage.Service,
) *API {
	return &API{
		cfg:        cfg,
		gates:      gates,
		admins:     adminSvc,
		publishers: publisherSvc,
		readers:    readerSvc,
		articles:   articleSvc,
		regions:    regionSvc,
		images:     images,
	}
}

// Router builds the full route tree.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "apikey"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(a.cfg.Server.RateLimit, a.cfg.Server.RateWindow))
	r.Use(middleware.PrometheusMetrics)

	// Brute-force protection for credential endpoints.
	loginLimit := httprate.LimitByIP(a.cfg.Server.LoginRateLimit, a.cfg.Server.LoginRateWindow)

	// Operational endpoints.
	r.Get("/healthz", a.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public catalog.
	r.Get("/articles", a.handleListArticles)
	r.Get("/articles/{articleId}", a.handleGetArticle)
	r.Get("/regions", a.handleListRegions)
	r.Get("/regions/{regionId}/articles", a.handleRegionArticles)
	r.Get("/publishers", a.handleListPublishers)
	r.Get("/publishers/{publisherId}", a.handleGetPublisher)
	r.Get("/publishers/{publisherId}/articles", a.handlePublisherArticles)
	r.Get("/images/{filename}", a.handleGetImage)

	// Admin surface.
	r.Route("/admin", func(r chi.Router) {
		r.With(loginLimit).Post("/login", a.handleAdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(a.gates.RequireAdmin)
			r.Post("/publishers", a.handleCreatePublisher)
			r.Post("/createApiCredentials", a.handleCreateAPICredentials)
		})
	})

	// Publisher surface.
	r.Route("/publishers", func(r chi.Router) {
		r.With(loginLimit).Post("/login", a.handlePublisherLogin)
		r.With(a.gates.RequirePublisherInitial).Post("/setPassword", a.handleSetPassword)

		r.Group(func(r chi.Router) {
			r.Use(a.gates.RequirePublisher)
			r.Get("/me", a.handlePublisherMe)
			r.Put("/me", a.handleUpdatePublisherProfile)
			r.Get("/me/articles", a.handleOwnArticles)

			r.Post("/articles", a.handleCreateArticle)
			r.Put("/articles/{articleId}", a.handleUpdateArticle)
			r.Delete("/articles/{articleId}", a.handleDeleteArticle)

			r.Get("/articlesReported", a.handleReportedArticles)
			r.Post("/articlesReported/{articleId}", a.handleReportArticle)
			r.Delete("/articlesReported/{articleId}", a.handleUndoReportArticle)
		})
	})

	// WordPress bridge.
	r.Route("/publishersApi", func(r chi.Router) {
		r.Use(a.gates.RequirePublisherAPI)
		r.Post("/articles", a.handleWordpressUpsert)
	})

	// Reader surface.
	r.Route("/readers", func(r chi.Router) {
		r.With(loginLimit).Post("/registerByEmail", a.handleRegisterByEmail)
		r.With(loginLimit).Post("/verifyEmail", a.handleVerifyEmail)
		r.With(loginLimit).Post("/loginByEmail", a.handleLoginByEmail)
		r.With(loginLimit).Post("/authByFacebook", a.handleAuthByFacebook)

		r.Route("/me", func(r chi.Router) {
			r.Use(a.gates.RequireReader)

			r.Get("/toRead", a.handleToReadArticles)
			r.Post("/toRead/{articleId}", a.handleAddToRead)
			r.Delete("/toRead/{articleId}", a.handleRemoveToRead)

			r.Get("/readed", a.handleReadedArticles)
			r.Post("/readed/{articleId}", a.handleAddReaded)
			r.Delete("/readed/{articleId}", a.handleRemoveReaded)

			r.Get("/regions", a.handleFollowedRegions)
			r.Post("/regions/{regionId}", a.handleFollowRegion)
			r.Delete("/regions/{regionId}", a.handleUnfollowRegion)

			r.Get("/feed", a.handleFeed)
		})
	})

	return r
}

// handleHealth answers liveness probes.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
