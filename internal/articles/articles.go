// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package articles implements the content engine: publisher-owned CRUD,
// the public catalog with its visibility rules, cross-publisher
// reporting, and the idempotent WordPress ingest.
package articles

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sony/gobreaker/v2"

	"github.com/pressgate/pressgate/internal/apperr"
	"github.com/pressgate/pressgate/internal/database"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/metrics"
	"github.com/pressgate/pressgate/internal/models"
)

// PhotoFetcher pulls a remote photo into local storage and returns the
// stored filename. Implemented by the storage service.
type PhotoFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	URLFor(name string) string
}

// Service implements article operations.
type Service struct {
	store   *database.Store
	photos  PhotoFetcher
	breaker *gobreaker.CircuitBreaker[string]

	contentPolicy *bluemonday.Policy
	textPolicy    *bluemonday.Policy
}

// NewService creates the article service. The circuit breaker wraps
// remote photo fetches so a dead WordPress origin cannot stall every
// ingest request behind its timeout.
func NewService(store *database.Store, photos PhotoFetcher) *Service {
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "wordpress-photo-fetch",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Service{
		store:         store,
		photos:        photos,
		breaker:       breaker,
		contentPolicy: bluemonday.UGCPolicy(),
		textPolicy:    bluemonday.StrictPolicy(),
	}
}

// Input carries the writable article fields. Content keeps user-generated
// HTML after sanitization; the plain-text fields are stripped of markup
// entirely.
type Input struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content" validate:"required"`
	PhotoURL    string `json:"photoUrl"`
	RegionID    string `json:"regionId" validate:"required"`
	IsPublished bool   `json:"isPublished"`
}

// Create stores a new article for the publisher.
func (s *Service) Create(ctx context.Context, publisherID string, in *Input) (*models.Article, error) {
	if err := s.ensureRegionExists(ctx, in.RegionID); err != nil {
		return nil, err
	}

	article := &models.Article{
		ID:          uuid.NewString(),
		Title:       s.textPolicy.Sanitize(in.Title),
		Author:      s.textPolicy.Sanitize(in.Author),
		Excerpt:     s.textPolicy.Sanitize(in.Excerpt),
		Content:     s.contentPolicy.Sanitize(in.Content),
		PhotoURL:    in.PhotoURL,
		PublishedBy: publisherID,
		RegionID:    in.RegionID,
		ReportedBy:  []string{},
		IsPublished: in.IsPublished,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertArticle(ctx, article); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("article_id", article.ID).
		Str("publisher_id", publisherID).
		Bool("published", article.IsPublished).
		Msg("Article created")
	return article, nil
}

// Update rewrites an article's writable fields. Only the owner may edit;
// the report set and its counter are never touched here.
func (s *Service) Update(ctx context.Context, publisherID, articleID string, in *Input) (*models.Article, error) {
	if err := s.ensureRegionExists(ctx, in.RegionID); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateArticle(ctx, articleID, func(a *models.Article) error {
		if a.PublishedBy != publisherID {
			return apperr.New(apperr.CodeCannotEditOtherThanOwn, http.StatusForbidden)
		}
		a.Title = s.textPolicy.Sanitize(in.Title)
		a.Author = s.textPolicy.Sanitize(in.Author)
		a.Excerpt = s.textPolicy.Sanitize(in.Excerpt)
		a.Content = s.contentPolicy.Sanitize(in.Content)
		a.PhotoURL = in.PhotoURL
		a.RegionID = in.RegionID
		a.IsPublished = in.IsPublished
		return nil
	})
	if err != nil {
		return nil, s.mapArticleErr(err)
	}
	return updated, nil
}

// Delete removes an article. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, publisherID, articleID string) error {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return s.mapArticleErr(err)
	}
	if article.PublishedBy != publisherID {
		return apperr.New(apperr.CodeCannotEditOtherThanOwn, http.StatusForbidden)
	}
	if err := s.store.DeleteArticle(ctx, articleID); err != nil {
		return s.mapArticleErr(err)
	}
	logging.Ctx(ctx).Info().Str("article_id", articleID).Msg("Article deleted")
	return nil
}

// Get returns one article. With publicOnly set, drafts read as
// nonexistent rather than forbidden. A published article stays
// retrievable by id even after reports pushed it out of the public
// listings, so an existing link keeps working.
func (s *Service) Get(ctx context.Context, articleID string, publicOnly bool) (*models.Article, error) {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return nil, s.mapArticleErr(err)
	}
	if publicOnly && !article.IsPublished {
		return nil, apperr.New(apperr.CodeArticleDoesNotExist, http.StatusNotFound)
	}
	return article, nil
}

// QueryPublic pages through accessible articles, optionally narrowed to
// a region or a publisher.
func (s *Service) QueryPublic(ctx context.Context, regionID, publisherID string, page, perPage int) (*models.ArticlesPage, error) {
	filter := database.ArticleFilter{
		RegionID:       regionID,
		PublisherID:    publisherID,
		OnlyAccessible: true,
	}
	return s.store.QueryArticles(ctx, filter, page, perPage)
}

// OwnArticles pages through everything a publisher owns, drafts and
// suppressed articles included.
func (s *Service) OwnArticles(ctx context.Context, publisherID string, page, perPage int) (*models.ArticlesPage, error) {
	filter := database.ArticleFilter{PublisherID: publisherID}
	return s.store.QueryArticles(ctx, filter, page, perPage)
}

// ReportedArticles pages through the articles a publisher has reported.
func (s *Service) ReportedArticles(ctx context.Context, publisherID string, page, perPage int) (*models.ArticlesPage, error) {
	filter := database.ArticleFilter{ReportedBy: publisherID}
	return s.store.QueryArticles(ctx, filter, page, perPage)
}

// ReportBy records that a publisher reported an article. The article's
// report set, its counter, and the reporter's own reported list change
// in one transaction, so a torn report can never survive a crash.
// Reporting your own article is rejected before the duplicate check.
func (s *Service) ReportBy(ctx context.Context, articleID, publisherID string) (*models.Article, error) {
	article, err := s.store.MutateArticleAndPublisher(ctx, articleID, publisherID,
		func(a *models.Article, p *models.Publisher) error {
			if a.PublishedBy == publisherID {
				return apperr.New(apperr.CodeCannotReportOwnArticle, http.StatusConflict)
			}
			if a.ReportedByPublisher(publisherID) {
				return apperr.New(apperr.CodeArticleAlreadyReported, http.StatusConflict)
			}
			a.ReportedBy = append(a.ReportedBy, publisherID)
			a.ReportedByLength = len(a.ReportedBy)
			p.ArticlesReported = append(p.ArticlesReported, a.ID)
			return nil
		})
	if err != nil {
		return nil, s.mapArticleErr(err)
	}

	metrics.RecordArticleReport("report")
	if !article.Accessible() && article.IsPublished {
		logging.Ctx(ctx).Warn().
			Str("article_id", articleID).
			Int("reports", article.ReportedByLength).
			Msg("Article suppressed by reports")
	}
	return article, nil
}

// UndoReportBy withdraws a publisher's report, the exact inverse of
// ReportBy. Withdrawing a report that was never filed is a conflict.
func (s *Service) UndoReportBy(ctx context.Context, articleID, publisherID string) (*models.Article, error) {
	article, err := s.store.MutateArticleAndPublisher(ctx, articleID, publisherID,
		func(a *models.Article, p *models.Publisher) error {
			if !a.ReportedByPublisher(publisherID) {
				return apperr.New(apperr.CodeLackOfArticleInReported, http.StatusConflict)
			}
			a.ReportedBy = removeString(a.ReportedBy, publisherID)
			a.ReportedByLength = len(a.ReportedBy)
			p.ArticlesReported = removeString(p.ArticlesReported, a.ID)
			return nil
		})
	if err != nil {
		return nil, s.mapArticleErr(err)
	}

	metrics.RecordArticleReport("undo")
	return article, nil
}

// WordpressInput is one article pushed by the WordPress bridge plugin.
type WordpressInput struct {
	WordpressID string `json:"wordpressId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content" validate:"required"`
	PhotoURL    string `json:"photoUrl"`
	RegionID    string `json:"regionId" validate:"required"`
}

// UpsertFromWordpress creates or updates an article keyed by the
// publisher's WordPress post id. New articles land unpublished so an
// editor reviews them before they go live. The source photo is fetched
// only when its URL changed since the last successful fetch, and a
// failed fetch never fails the ingest; the text update always lands.
func (s *Service) UpsertFromWordpress(ctx context.Context, publisherID string, in *WordpressInput) (*models.Article, error) {
	if err := s.ensureRegionExists(ctx, in.RegionID); err != nil {
		return nil, err
	}

	existing, err := s.store.FindArticleByWordpressID(ctx, publisherID, in.WordpressID)
	if err != nil && !database.IsNotFound(err) {
		return nil, err
	}

	if existing == nil {
		article := &models.Article{
			ID:          uuid.NewString(),
			Title:       s.textPolicy.Sanitize(in.Title),
			Author:      s.textPolicy.Sanitize(in.Author),
			Excerpt:     s.textPolicy.Sanitize(in.Excerpt),
			Content:     s.contentPolicy.Sanitize(in.Content),
			PublishedBy: publisherID,
			RegionID:    in.RegionID,
			WordpressID: in.WordpressID,
			ReportedBy:  []string{},
			IsPublished: false,
			CreatedAt:   time.Now().UTC(),
		}
		s.refreshWordpressPhoto(ctx, article, in.PhotoURL)
		if err := s.store.InsertArticle(ctx, article); err != nil {
			return nil, err
		}
		logging.Ctx(ctx).Info().
			Str("article_id", article.ID).
			Str("wordpress_id", in.WordpressID).
			Msg("Article ingested from WordPress")
		return article, nil
	}

	updated, err := s.store.UpdateArticle(ctx, existing.ID, func(a *models.Article) error {
		a.Title = s.textPolicy.Sanitize(in.Title)
		a.Author = s.textPolicy.Sanitize(in.Author)
		a.Excerpt = s.textPolicy.Sanitize(in.Excerpt)
		a.Content = s.contentPolicy.Sanitize(in.Content)
		a.RegionID = in.RegionID
		s.refreshWordpressPhoto(ctx, a, in.PhotoURL)
		return nil
	})
	if err != nil {
		return nil, s.mapArticleErr(err)
	}
	return updated, nil
}

// refreshWordpressPhoto fetches the source photo when its URL differs
// from the last successfully fetched one. On failure the previous photo
// and marker stay, so the next ingest retries.
func (s *Service) refreshWordpressPhoto(ctx context.Context, a *models.Article, photoURL string) {
	if photoURL == "" || photoURL == a.LastWordpressPhotoURL {
		return
	}

	stored, err := s.breaker.Execute(func() (string, error) {
		return s.photos.Fetch(ctx, photoURL)
	})
	if err != nil {
		metrics.RecordPhotoFetch("failure")
		logging.Ctx(ctx).Warn().Err(err).
			Str("photo_url", photoURL).
			Str("wordpress_id", a.WordpressID).
			Msg("WordPress photo fetch failed, keeping previous photo")
		return
	}

	metrics.RecordPhotoFetch("success")
	a.PhotoURL = s.photos.URLFor(stored)
	a.LastWordpressPhotoURL = photoURL
}

func (s *Service) ensureRegionExists(ctx context.Context, regionID string) error {
	if _, err := s.store.GetRegion(ctx, regionID); err != nil {
		if database.IsNotFound(err) {
			return apperr.New(apperr.CodeRegionDoesNotExist, http.StatusNotFound)
		}
		return err
	}
	return nil
}

func (s *Service) mapArticleErr(err error) error {
	if database.IsNotFound(err) {
		return apperr.New(apperr.CodeArticleDoesNotExist, http.StatusNotFound)
	}
	return err
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
