// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Command server runs the PressGate API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressgate/pressgate/internal/admins"
	"github.com/pressgate/pressgate/internal/api"
	"github.com/pressgate/pressgate/internal/articles"
	"github.com/pressgate/pressgate/internal/auth"
	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/database"
	"github.com/pressgate/pressgate/internal/email"
	"github.com/pressgate/pressgate/internal/facebook"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/publishers"
	"github.com/pressgate/pressgate/internal/readers"
	"github.com/pressgate/pressgate/internal/regions"
	"github.com/pressgate/pressgate/internal/storage"
	"github.com/pressgate/pressgate/internal/supervisor"
	"github.com/pressgate/pressgate/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
	})

	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting PressGate server")

	store, err := database.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close document store")
		}
	}()

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("create token manager: %w", err)
	}
	gates := auth.NewGates(tokens, store)

	images, err := storage.NewService(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("create image storage: %w", err)
	}

	mail := email.NewSMTPSender(&cfg.Email)
	fb := facebook.NewGraphClient(&cfg.Facebook)

	adminSvc := admins.NewService(store, tokens, mail)
	publisherSvc := publishers.NewService(store, tokens, &cfg.Security)
	readerSvc := readers.NewService(store, tokens, mail, fb)
	articleSvc := articles.NewService(store, images)
	regionSvc := regions.NewService(store)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSeed()
	if err := adminSvc.EnsureDefaultAdmin(seedCtx, &cfg.Security); err != nil {
		return fmt.Errorf("seed default admin: %w", err)
	}
	if err := regionSvc.EnsureSeeded(seedCtx, cfg.Regions.SeedPath); err != nil {
		return fmt.Errorf("seed regions: %w", err)
	}

	apiSurface := api.New(cfg, gates, adminSvc, publisherSvc, readerSvc, articleSvc, regionSvc, images)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           apiSurface.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddDataService(services.NewStoreGCService(store, cfg.Database.GCInterval))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}
