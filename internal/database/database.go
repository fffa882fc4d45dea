// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package database implements the PressGate document store on BadgerDB.
//
// Each collection lives under a key prefix (admin:, publisher:, reader:,
// article:, region:) with goccy/go-json encoded documents as values.
// Unique lookups (email, api key, wordpress id, verification code) are
// secondary index keys pointing at the primary id.
//
// All multi-document mutations run inside a single serializable Badger
// transaction. Badger detects write conflicts at commit; mutating helpers
// retry on ErrConflict, which makes read-modify-write sequences such as
// the article report counter behave like an atomic compare-and-swap. This
// is what preserves reportedByLength == len(reportedBy) under concurrent
// reporters.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/metrics"
)

// Key prefixes for the document collections and their secondary indexes.
const (
	adminKeyPrefix         = "admin:"
	adminEmailPrefix       = "admin_email:"
	publisherKeyPrefix     = "publisher:"
	publisherEmailPrefix   = "publisher_email:"
	publisherAPIKeyPrefix  = "publisher_apikey:"
	readerKeyPrefix        = "reader:"
	readerEmailPrefix      = "reader_email:"
	readerFacebookPrefix   = "reader_facebook:"
	readerVerifyPrefix     = "reader_verify:"
	articleKeyPrefix       = "article:"
	articleWordpressPrefix = "article_wp:"
	regionKeyPrefix        = "region:"
)

// ErrNotFound is returned when no document matches the given key.
var ErrNotFound = errors.New("document not found")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// maxTxnRetries bounds the conflict retry loop on concurrent updates.
const maxTxnRetries = 16

// Store is the badger-backed document store shared by all services.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the document store described by cfg.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(badgerLogger{logging.With().Str("component", "database").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunValueLogGC triggers one round of badger value log garbage collection.
// Returns badger.ErrNoRewrite when there was nothing to collect.
func (s *Store) RunValueLogGC() error {
	err := s.db.RunValueLogGC(0.5)
	switch {
	case err == nil:
		metrics.RecordGCRun("reclaimed")
	case errors.Is(err, badger.ErrNoRewrite):
		metrics.RecordGCRun("nothing")
	default:
		metrics.RecordGCRun("error")
	}
	return err
}

// view runs a read-only transaction.
func (s *Store) view(fn func(txn *badger.Txn) error) error {
	return s.db.View(fn)
}

// update runs a read-write transaction, retrying on commit conflicts.
// Domain errors returned by fn abort immediately without retry.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for i := 0; i < maxTxnRetries; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		metrics.RecordTxnRetry()
	}
	return fmt.Errorf("transaction conflict persisted after %d retries", maxTxnRetries)
}

// setJSON writes v under key as a JSON document.
func setJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

// getJSON reads the document under key into out. Returns ErrNotFound when
// the key is absent.
func getJSON(txn *badger.Txn, key string, out interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// getIndexed resolves a secondary index key to the primary id it points at.
func getIndexed(txn *badger.Txn, idxKey string) (string, error) {
	item, err := txn.Get([]byte(idxKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get index %s: %w", idxKey, err)
	}
	var id string
	err = item.Value(func(val []byte) error {
		id = string(val)
		return nil
	})
	return id, err
}

// setIndex writes a secondary index entry pointing at the primary id.
func setIndex(txn *badger.Txn, idxKey, id string) error {
	return txn.Set([]byte(idxKey), []byte(id))
}

// forEachDoc iterates every document under prefix, decoding each into a
// fresh T and passing it to fn. Iteration stops when fn returns false.
func forEachDoc[T any](txn *badger.Txn, prefix string, fn func(doc *T) bool) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		var doc T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
		if err != nil {
			return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		if !fn(&doc) {
			return nil
		}
	}
	return nil
}

// paginate converts a 1-indexed page/perPage pair to slice bounds over n
// items: skip = (page-1)*perPage. Out-of-range pages yield an empty slice.
func paginate(n, page, perPage int) (start, end int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	start = (page - 1) * perPage
	if start >= n {
		return n, n
	}
	end = start + perPage
	if end > n {
		end = n
	}
	return start, end
}

// badgerLogger adapts zerolog to badger's Logger interface.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
