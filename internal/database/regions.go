// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package database

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/pressgate/pressgate/internal/models"
)

func regionKey(id string) string {
	return regionKeyPrefix + id
}

// InsertRegion stores a region. Regions are static reference data seeded
// at startup; there is no update or delete path.
func (s *Store) InsertRegion(ctx context.Context, r *models.Region) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, regionKey(r.ID), r)
	})
}

// GetRegion fetches a region by id.
func (s *Store) GetRegion(ctx context.Context, id string) (*models.Region, error) {
	var r models.Region
	err := s.view(func(txn *badger.Txn) error {
		return getJSON(txn, regionKey(id), &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountRegions returns the number of region records.
func (s *Store) CountRegions(ctx context.Context) (int, error) {
	count := 0
	err := s.view(func(txn *badger.Txn) error {
		return forEachDoc(txn, regionKeyPrefix, func(_ *models.Region) bool {
			count++
			return true
		})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListRegions returns all regions ordered by title.
func (s *Store) ListRegions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	err := s.view(func(txn *badger.Txn) error {
		return forEachDoc(txn, regionKeyPrefix, func(r *models.Region) bool {
			regions = append(regions, *r)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Title < regions[j].Title
	})
	return regions, nil
}

// GetRegionsByIDs fetches the given regions, skipping ids that no longer
// resolve.
func (s *Store) GetRegionsByIDs(ctx context.Context, ids []string) ([]models.Region, error) {
	var regions []models.Region
	err := s.view(func(txn *badger.Txn) error {
		for _, id := range ids {
			var r models.Region
			if err := getJSON(txn, regionKey(id), &r); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			regions = append(regions, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return regions, nil
}
