// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package database

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/pressgate/pressgate/internal/models"
)

func adminKey(id string) string {
	return adminKeyPrefix + id
}

// CountAdmins returns the number of admin records. Used by the startup
// seeding check.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	count := 0
	err := s.view(func(txn *badger.Txn) error {
		return forEachDoc(txn, adminKeyPrefix, func(_ *models.Admin) bool {
			count++
			return true
		})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// InsertAdmin stores a new admin and its email index.
func (s *Store) InsertAdmin(ctx context.Context, a *models.Admin) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if err := setJSON(txn, adminKey(a.ID), a); err != nil {
			return err
		}
		return setIndex(txn, adminEmailPrefix+a.Email, a.ID)
	})
}

// FindAdminByEmail resolves the email index to an admin.
func (s *Store) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := s.view(func(txn *badger.Txn) error {
		id, err := getIndexed(txn, adminEmailPrefix+email)
		if err != nil {
			return err
		}
		return getJSON(txn, adminKey(id), &a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}
