// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package regions serves the fixed region catalog. Regions are reference
// data: seeded once from a YAML file at startup and read-only afterwards.
package regions

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pressgate/pressgate/internal/database"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/models"
)

// seedRegion is the YAML shape of one catalog entry.
type seedRegion struct {
	Title     string   `yaml:"title"`
	Countries []string `yaml:"countries"`
}

// Service reads the region catalog.
type Service struct {
	store *database.Store
}

// NewService creates a region service over the store.
func NewService(store *database.Store) *Service {
	return &Service{store: store}
}

// EnsureSeeded loads the catalog from the seed file when the regions
// collection is empty. A non-empty collection is left untouched, so
// editing the seed file after first boot has no effect.
func (s *Service) EnsureSeeded(ctx context.Context, seedPath string) error {
	count, err := s.store.CountRegions(ctx)
	if err != nil {
		return fmt.Errorf("failed to count regions: %w", err)
	}
	if count > 0 {
		return nil
	}
	if seedPath == "" {
		logging.Info().Msg("No region seed file configured, catalog stays empty")
		return nil
	}

	raw, err := os.ReadFile(seedPath)
	if err != nil {
		return fmt.Errorf("failed to read region seed file: %w", err)
	}
	var seeds []seedRegion
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("failed to parse region seed file: %w", err)
	}

	for _, seed := range seeds {
		region := &models.Region{
			ID:        uuid.NewString(),
			Title:     seed.Title,
			Countries: seed.Countries,
		}
		if err := s.store.InsertRegion(ctx, region); err != nil {
			return fmt.Errorf("failed to seed region %q: %w", seed.Title, err)
		}
	}

	logging.Info().Int("count", len(seeds)).Str("path", seedPath).Msg("Seeded region catalog")
	return nil
}

// List returns the full catalog ordered by title.
func (s *Service) List(ctx context.Context) ([]models.Region, error) {
	return s.store.ListRegions(ctx)
}

// Get returns one region by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Region, error) {
	return s.store.GetRegion(ctx, id)
}

// Exists reports whether a region id is part of the catalog.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.GetRegion(ctx, id)
	if err == nil {
		return true, nil
	}
	if database.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
