// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package regions

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/database"
)

const seedYAML = `- title: Western Europe
  countries: [FR, DE, NL]
- title: Oceania
  countries: [AU, NZ]
`

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(&config.DatabaseConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestEnsureSeededPopulatesEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestStore(t))
	path := writeSeedFile(t, seedYAML)

	if err := svc.EnsureSeeded(ctx, path); err != nil {
		t.Fatalf("EnsureSeeded() error = %v", err)
	}

	regions, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("len(regions) = %d, want 2", len(regions))
	}
	for _, region := range regions {
		if region.ID == "" {
			t.Errorf("region %q has empty id", region.Title)
		}
	}
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestStore(t))
	path := writeSeedFile(t, seedYAML)

	if err := svc.EnsureSeeded(ctx, path); err != nil {
		t.Fatalf("first EnsureSeeded() error = %v", err)
	}
	// A changed seed file must not touch an already populated catalog.
	path2 := writeSeedFile(t, `- title: Replaced
  countries: [XX]
`)
	if err := svc.EnsureSeeded(ctx, path2); err != nil {
		t.Fatalf("second EnsureSeeded() error = %v", err)
	}

	regions, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(regions) != 2 {
		t.Errorf("len(regions) = %d after reseed attempt, want 2", len(regions))
	}
}

func TestEnsureSeededWithoutSeedFile(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestStore(t))

	if err := svc.EnsureSeeded(ctx, ""); err != nil {
		t.Fatalf("EnsureSeeded(\"\") error = %v", err)
	}
	regions, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(regions) != 0 {
		t.Errorf("len(regions) = %d, want 0", len(regions))
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestStore(t))
	if err := svc.EnsureSeeded(ctx, writeSeedFile(t, seedYAML)); err != nil {
		t.Fatalf("EnsureSeeded() error = %v", err)
	}

	regions, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	ok, err := svc.Exists(ctx, regions[0].ID)
	if err != nil || !ok {
		t.Errorf("Exists(known) = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = svc.Exists(ctx, "no-such-region")
	if err != nil || ok {
		t.Errorf("Exists(unknown) = (%v, %v), want (false, nil)", ok, err)
	}
}
