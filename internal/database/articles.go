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

// ArticleFilter selects articles in QueryArticles. Zero-value fields are
// ignored. OnlyAccessible additionally requires isPublished == true and
// reportedByLength below the suppression threshold; it must be true for
// every public query and false only for owner-scoped listings.
type ArticleFilter struct {
	PublisherID    string
	RegionID       string
	RegionIDs      []string
	ReportedBy     string
	OnlyAccessible bool
}

func (f *ArticleFilter) matches(a *models.Article) bool {
	if f.OnlyAccessible && !a.Accessible() {
		return false
	}
	if f.PublisherID != "" && a.PublishedBy != f.PublisherID {
		return false
	}
	if f.RegionID != "" && a.RegionID != f.RegionID {
		return false
	}
	if len(f.RegionIDs) > 0 {
		found := false
		for _, id := range f.RegionIDs {
			if a.RegionID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ReportedBy != "" && !a.ReportedByPublisher(f.ReportedBy) {
		return false
	}
	return true
}

func articleKey(id string) string {
	return articleKeyPrefix + id
}

// articleWordpressKey forms the compound external key. The publisher id
// comes first so one publisher's WordPress ids cannot collide with
// another's.
func articleWordpressKey(publisherID, wordpressID string) string {
	return articleWordpressPrefix + publisherID + ":" + wordpressID
}

// InsertArticle stores a new article and, for WordPress-sourced articles,
// its external compound key index.
func (s *Store) InsertArticle(ctx context.Context, a *models.Article) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if err := setJSON(txn, articleKey(a.ID), a); err != nil {
			return err
		}
		if a.WordpressID != "" {
			return setIndex(txn, articleWordpressKey(a.PublishedBy, a.WordpressID), a.ID)
		}
		return nil
	})
}

// GetArticle fetches an article by id. Suppressed and draft articles are
// returned; visibility filtering is a query concern, not a fetch concern.
func (s *Store) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var a models.Article
	err := s.view(func(txn *badger.Txn) error {
		return getJSON(txn, articleKey(id), &a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteArticle removes an article and its WordPress index entry.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		var a models.Article
		if err := getJSON(txn, articleKey(id), &a); err != nil {
			return err
		}
		if a.WordpressID != "" {
			if err := txn.Delete([]byte(articleWordpressKey(a.PublishedBy, a.WordpressID))); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(articleKey(id)))
	})
}

// UpdateArticle applies mutate to the stored article inside a single
// transaction and returns the updated document. Errors from mutate abort
// the update unchanged.
func (s *Store) UpdateArticle(ctx context.Context, id string, mutate func(*models.Article) error) (*models.Article, error) {
	var updated models.Article
	err := s.update(ctx, func(txn *badger.Txn) error {
		var a models.Article
		if err := getJSON(txn, articleKey(id), &a); err != nil {
			return err
		}
		if err := mutate(&a); err != nil {
			return err
		}
		updated = a
		return setJSON(txn, articleKey(id), &a)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// MutateArticleAndPublisher applies fn to an article and a publisher in
// one transaction. Used by the reporting protocol, which must keep the
// article's reportedBy set and the publisher's articlesReported list in
// step. Domain errors from fn abort without writing; commit conflicts
// rerun fn on fresh documents.
func (s *Store) MutateArticleAndPublisher(ctx context.Context, articleID, publisherID string, fn func(a *models.Article, p *models.Publisher) error) (*models.Article, error) {
	var updated models.Article
	err := s.update(ctx, func(txn *badger.Txn) error {
		var a models.Article
		if err := getJSON(txn, articleKey(articleID), &a); err != nil {
			return err
		}
		var p models.Publisher
		if err := getJSON(txn, publisherKey(publisherID), &p); err != nil {
			return err
		}
		if err := fn(&a, &p); err != nil {
			return err
		}
		if err := setJSON(txn, articleKey(articleID), &a); err != nil {
			return err
		}
		if err := setJSON(txn, publisherKey(publisherID), &p); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// FindArticleByWordpressID resolves the compound (publisher, wordpress id)
// key to an article.
func (s *Store) FindArticleByWordpressID(ctx context.Context, publisherID, wordpressID string) (*models.Article, error) {
	var a models.Article
	err := s.view(func(txn *badger.Txn) error {
		id, err := getIndexed(txn, articleWordpressKey(publisherID, wordpressID))
		if err != nil {
			return err
		}
		return getJSON(txn, articleKey(id), &a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// QueryArticles returns one page of articles matching filter, newest
// first, along with the total match count. Pagination is 1-indexed.
func (s *Store) QueryArticles(ctx context.Context, filter ArticleFilter, page, perPage int) (*models.ArticlesPage, error) {
	matches := []models.Article{}
	err := s.view(func(txn *badger.Txn) error {
		return forEachDoc(txn, articleKeyPrefix, func(a *models.Article) bool {
			if filter.matches(a) {
				matches = append(matches, *a)
			}
			return true
		})
	})
	if err != nil {
		return nil, err
	}

	sortArticlesNewestFirst(matches)

	start, end := paginate(len(matches), page, perPage)
	return &models.ArticlesPage{
		Articles: matches[start:end],
		CountAll: len(matches),
	}, nil
}

// GetArticlesByIDs fetches the given articles, newest first, paginated.
// Missing ids are skipped: a reading list may reference articles deleted
// by their publisher since.
func (s *Store) GetArticlesByIDs(ctx context.Context, ids []string, page, perPage int) (*models.ArticlesPage, error) {
	matches := []models.Article{}
	err := s.view(func(txn *badger.Txn) error {
		for _, id := range ids {
			var a models.Article
			if err := getJSON(txn, articleKey(id), &a); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			matches = append(matches, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortArticlesNewestFirst(matches)

	start, end := paginate(len(matches), page, perPage)
	return &models.ArticlesPage{
		Articles: matches[start:end],
		CountAll: len(matches),
	}, nil
}

// sortArticlesNewestFirst orders by creation time descending, id as a
// deterministic tie-breaker.
func sortArticlesNewestFirst(articles []models.Article) {
	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].CreatedAt.After(articles[j].CreatedAt)
		}
		return articles[i].ID > articles[j].ID
	})
}
