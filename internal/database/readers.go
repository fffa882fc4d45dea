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

func readerKey(id string) string {
	return readerKeyPrefix + id
}

// InsertReader stores a new reader with its email and, where present,
// facebook id and verification code indexes.
func (s *Store) InsertReader(ctx context.Context, r *models.Reader) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if err := setJSON(txn, readerKey(r.ID), r); err != nil {
			return err
		}
		if err := setIndex(txn, readerEmailPrefix+r.Email, r.ID); err != nil {
			return err
		}
		if r.FacebookID != "" {
			if err := setIndex(txn, readerFacebookPrefix+r.FacebookID, r.ID); err != nil {
				return err
			}
		}
		if r.EmailVerificationCode != "" {
			return setIndex(txn, readerVerifyPrefix+r.EmailVerificationCode, r.ID)
		}
		return nil
	})
}

// GetReader fetches a reader by id.
func (s *Store) GetReader(ctx context.Context, id string) (*models.Reader, error) {
	var r models.Reader
	err := s.view(func(txn *badger.Txn) error {
		return getJSON(txn, readerKey(id), &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FindReaderByEmail resolves the email index to a reader.
func (s *Store) FindReaderByEmail(ctx context.Context, email string) (*models.Reader, error) {
	return s.findReaderByIndex(readerEmailPrefix + email)
}

// FindReaderByFacebookID resolves the facebook id index to a reader.
func (s *Store) FindReaderByFacebookID(ctx context.Context, facebookID string) (*models.Reader, error) {
	return s.findReaderByIndex(readerFacebookPrefix + facebookID)
}

// FindReaderByVerificationCode resolves an email verification code to the
// reader it was issued for.
func (s *Store) FindReaderByVerificationCode(ctx context.Context, code string) (*models.Reader, error) {
	return s.findReaderByIndex(readerVerifyPrefix + code)
}

func (s *Store) findReaderByIndex(idxKey string) (*models.Reader, error) {
	var r models.Reader
	err := s.view(func(txn *badger.Txn) error {
		id, err := getIndexed(txn, idxKey)
		if err != nil {
			return err
		}
		return getJSON(txn, readerKey(id), &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateReader applies mutate inside a single transaction and returns the
// updated document. The verification code index follows code changes so a
// consumed code stops resolving.
func (s *Store) UpdateReader(ctx context.Context, id string, mutate func(*models.Reader) error) (*models.Reader, error) {
	var updated models.Reader
	err := s.update(ctx, func(txn *badger.Txn) error {
		var r models.Reader
		if err := getJSON(txn, readerKey(id), &r); err != nil {
			return err
		}
		prevCode := r.EmailVerificationCode
		if err := mutate(&r); err != nil {
			return err
		}
		if r.EmailVerificationCode != prevCode {
			if prevCode != "" {
				if err := txn.Delete([]byte(readerVerifyPrefix + prevCode)); err != nil {
					return err
				}
			}
			if r.EmailVerificationCode != "" {
				if err := setIndex(txn, readerVerifyPrefix+r.EmailVerificationCode, r.ID); err != nil {
					return err
				}
			}
		}
		updated = r
		return setJSON(txn, readerKey(id), &r)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
