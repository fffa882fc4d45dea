// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/pressgate/pressgate/internal/logging"
)

// GCStore is the slice of the document store this service needs.
type GCStore interface {
	RunValueLogGC() error
}

// StoreGCService periodically runs badger value log garbage collection.
// Badger never reclaims value log space on its own; without this loop
// the store grows without bound.
type StoreGCService struct {
	store    GCStore
	interval time.Duration
}

// NewStoreGCService creates the GC loop with the given interval.
func NewStoreGCService(store GCStore, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{store: store, interval: interval}
}

// Serve implements suture.Service. Each tick keeps collecting until a
// round reclaims nothing, since one round rewrites at most one file.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for {
				err := s.store.RunValueLogGC()
				if err == nil {
					continue
				}
				if !errors.Is(err, badger.ErrNoRewrite) {
					logging.Warn().Err(err).Msg("Value log GC failed")
				}
				break
			}
		}
	}
}

// String identifies the service in supervision logs.
func (s *StoreGCService) String() string {
	return "store-gc"
}
