// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package database

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/pressgate/pressgate/internal/models"
)

func publisherKey(id string) string {
	return publisherKeyPrefix + id
}

// InsertPublisher stores a new publisher and its email index.
func (s *Store) InsertPublisher(ctx context.Context, p *models.Publisher) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if err := setJSON(txn, publisherKey(p.ID), p); err != nil {
			return err
		}
		return setIndex(txn, publisherEmailPrefix+p.Email, p.ID)
	})
}

// GetPublisher fetches a publisher by id.
func (s *Store) GetPublisher(ctx context.Context, id string) (*models.Publisher, error) {
	var p models.Publisher
	err := s.view(func(txn *badger.Txn) error {
		return getJSON(txn, publisherKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPublisherByEmail resolves the email index to a publisher.
func (s *Store) FindPublisherByEmail(ctx context.Context, email string) (*models.Publisher, error) {
	var p models.Publisher
	err := s.view(func(txn *badger.Txn) error {
		id, err := getIndexed(txn, publisherEmailPrefix+email)
		if err != nil {
			return err
		}
		return getJSON(txn, publisherKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPublisherByAPIKey resolves the api key index to a publisher. Used
// only by the publisher-api gate.
func (s *Store) FindPublisherByAPIKey(ctx context.Context, apiKey string) (*models.Publisher, error) {
	var p models.Publisher
	err := s.view(func(txn *badger.Txn) error {
		id, err := getIndexed(txn, publisherAPIKeyPrefix+apiKey)
		if err != nil {
			return err
		}
		return getJSON(txn, publisherKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePublisher applies mutate inside a single transaction and returns
// the updated document. When mutate assigns a new APIKey the index is
// kept in step.
func (s *Store) UpdatePublisher(ctx context.Context, id string, mutate func(*models.Publisher) error) (*models.Publisher, error) {
	var updated models.Publisher
	err := s.update(ctx, func(txn *badger.Txn) error {
		var p models.Publisher
		if err := getJSON(txn, publisherKey(id), &p); err != nil {
			return err
		}
		prevAPIKey := p.APIKey
		if err := mutate(&p); err != nil {
			return err
		}
		if p.APIKey != prevAPIKey {
			if prevAPIKey != "" {
				if err := txn.Delete([]byte(publisherAPIKeyPrefix + prevAPIKey)); err != nil {
					return err
				}
			}
			if p.APIKey != "" {
				if err := setIndex(txn, publisherAPIKeyPrefix+p.APIKey, p.ID); err != nil {
					return err
				}
			}
		}
		updated = p
		return setJSON(txn, publisherKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListPublishers returns all publishers ordered by creation time.
func (s *Store) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	var publishers []models.Publisher
	err := s.view(func(txn *badger.Txn) error {
		return forEachDoc(txn, publisherKeyPrefix, func(p *models.Publisher) bool {
			publishers = append(publishers, *p)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(publishers, func(i, j int) bool {
		if !publishers[i].CreatedAt.Equal(publishers[j].CreatedAt) {
			return publishers[i].CreatedAt.Before(publishers[j].CreatedAt)
		}
		return publishers[i].ID < publishers[j].ID
	})
	return publishers, nil
}
