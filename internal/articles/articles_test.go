// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package articles

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressgate/pressgate/internal/apperr"
	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/database"
	"github.com/pressgate/pressgate/internal/models"
)

// fakePhotos records fetches instead of touching the network.
type fakePhotos struct {
	mu      sync.Mutex
	fetches []string
	fail    bool
}

func (f *fakePhotos) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", fmt.Errorf("origin unreachable")
	}
	f.fetches = append(f.fetches, url)
	return fmt.Sprintf("stored-%d.jpg", len(f.fetches)), nil
}

func (f *fakePhotos) URLFor(name string) string {
	return "http://localhost/images/" + name
}

func (f *fakePhotos) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func newTestService(t *testing.T) (*Service, *database.Store, *fakePhotos) {
	t.Helper()
	store, err := database.Open(&config.DatabaseConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.InsertRegion(ctx, &models.Region{ID: "region-1", Title: "Region One"}))
	for _, id := range []string{"owner", "pub-a", "pub-b", "pub-c", "pub-d"} {
		require.NoError(t, store.InsertPublisher(ctx, &models.Publisher{
			ID:               id,
			Email:            id + "@example.com",
			ArticlesReported: []string{},
			CreatedAt:        time.Now().UTC(),
		}))
	}

	photos := &fakePhotos{}
	return NewService(store, photos), store, photos
}

func publishedInput() *Input {
	return &Input{
		Title:       "A headline",
		Author:      "Jo Writer",
		Content:     "<p>Body</p>",
		RegionID:    "region-1",
		IsPublished: true,
	}
}

func TestCreateSanitizesContent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	in := publishedInput()
	in.Title = `Hello <script>alert(1)</script>`
	in.Content = `<p>ok</p><script>alert(1)</script>`

	article, err := svc.Create(ctx, "owner", in)
	require.NoError(t, err)

	assert.NotContains(t, article.Title, "<script>")
	assert.NotContains(t, article.Content, "<script>")
	assert.Contains(t, article.Content, "<p>ok</p>")
	assert.Equal(t, "owner", article.PublishedBy)
	assert.True(t, article.Accessible())
}

func TestCreateRejectsUnknownRegion(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := publishedInput()
	in.RegionID = "nowhere"
	_, err := svc.Create(context.Background(), "owner", in)
	assert.True(t, apperr.IsCode(err, apperr.CodeRegionDoesNotExist))
}

func TestUpdateAndDeleteEnforceOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, "owner", publishedInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "pub-a", article.ID, publishedInput())
	assert.True(t, apperr.IsCode(err, apperr.CodeCannotEditOtherThanOwn))

	err = svc.Delete(ctx, "pub-a", article.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeCannotEditOtherThanOwn))

	updated, err := svc.Update(ctx, "owner", article.ID, publishedInput())
	require.NoError(t, err)
	assert.Equal(t, article.ID, updated.ID)

	require.NoError(t, svc.Delete(ctx, "owner", article.ID))
	_, err = svc.Get(ctx, article.ID, false)
	assert.True(t, apperr.IsCode(err, apperr.CodeArticleDoesNotExist))
}

func TestReportByRules(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, "owner", publishedInput())
	require.NoError(t, err)

	// Owner cannot report their own article, even twice in a row.
	_, err = svc.ReportBy(ctx, article.ID, "owner")
	assert.True(t, apperr.IsCode(err, apperr.CodeCannotReportOwnArticle))

	reported, err := svc.ReportBy(ctx, article.ID, "pub-a")
	require.NoError(t, err)
	assert.Equal(t, 1, reported.ReportedByLength)
	assert.True(t, reported.Accessible())

	// Duplicate report is a conflict.
	_, err = svc.ReportBy(ctx, article.ID, "pub-a")
	assert.True(t, apperr.IsCode(err, apperr.CodeArticleAlreadyReported))

	// The own-article rule wins over the duplicate rule.
	_, err = svc.ReportBy(ctx, article.ID, "owner")
	assert.True(t, apperr.IsCode(err, apperr.CodeCannotReportOwnArticle))
}

func TestThirdReportSuppressesArticle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, "owner", publishedInput())
	require.NoError(t, err)

	for _, p := range []string{"pub-a", "pub-b"} {
		got, err := svc.ReportBy(ctx, article.ID, p)
		require.NoError(t, err)
		assert.True(t, got.Accessible(), "article must stay visible below the threshold")
	}

	got, err := svc.ReportBy(ctx, article.ID, "pub-c")
	require.NoError(t, err)
	assert.False(t, got.Accessible(), "third report must suppress the article")
	assert.True(t, got.IsPublished, "suppression must not unpublish")

	// Suppressed article disappears from the public catalog entirely.
	page, err := svc.QueryPublic(ctx, "", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.CountAll)

	// Suppression hides the article from listings only; an existing
	// link still resolves.
	direct, err := svc.Get(ctx, article.ID, true)
	require.NoError(t, err)
	assert.Equal(t, article.ID, direct.ID)
	assert.False(t, direct.Accessible())

	// The owner still sees it.
	own, err := svc.OwnArticles(ctx, "owner", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, own.CountAll)
}

func TestPublicGetHidesDrafts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	input := publishedInput()
	input.IsPublished = false
	draft, err := svc.Create(ctx, "owner", input)
	require.NoError(t, err)

	_, err = svc.Get(ctx, draft.ID, true)
	assert.True(t, apperr.IsCode(err, apperr.CodeArticleDoesNotExist))

	got, err := svc.Get(ctx, draft.ID, false)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestUndoReportRoundTrip(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, "owner", publishedInput())
	require.NoError(t, err)

	for _, p := range []string{"pub-a", "pub-b", "pub-c"} {
		_, err := svc.ReportBy(ctx, article.ID, p)
		require.NoError(t, err)
	}

	// Undo one report: the article becomes accessible again.
	got, err := svc.UndoReportBy(ctx, article.ID, "pub-b")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ReportedByLength)
	assert.True(t, got.Accessible())

	// Undoing a report that is not there is a conflict.
	_, err = svc.UndoReportBy(ctx, article.ID, "pub-b")
	assert.True(t, apperr.IsCode(err, apperr.CodeLackOfArticleInReported))
	_, err = svc.UndoReportBy(ctx, article.ID, "pub-d")
	assert.True(t, apperr.IsCode(err, apperr.CodeLackOfArticleInReported))

	// Both sides of the relation agree after the round trip.
	pubB, err := store.GetPublisher(ctx, "pub-b")
	require.NoError(t, err)
	assert.Empty(t, pubB.ArticlesReported)
	pubA, err := store.GetPublisher(ctx, "pub-a")
	require.NoError(t, err)
	assert.Equal(t, []string{article.ID}, pubA.ArticlesReported)
}

func TestReportedArticlesListing(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "owner", publishedInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, "owner", publishedInput())
	require.NoError(t, err)

	_, err = svc.ReportBy(ctx, first.ID, "pub-a")
	require.NoError(t, err)
	_, err = svc.ReportBy(ctx, second.ID, "pub-a")
	require.NoError(t, err)

	page, err := svc.ReportedArticles(ctx, "pub-a", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CountAll)

	other, err := svc.ReportedArticles(ctx, "pub-b", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, other.CountAll)
}

func wordpressInput(wpID string) *WordpressInput {
	return &WordpressInput{
		WordpressID: wpID,
		Title:       "WP headline",
		Author:      "Jo Writer",
		Content:     "<p>WP body</p>",
		PhotoURL:    "https://origin.example.com/photo-1.jpg",
		RegionID:    "region-1",
	}
}

func TestWordpressUpsertCreatesDraft(t *testing.T) {
	svc, _, photos := newTestService(t)
	ctx := context.Background()

	article, err := svc.UpsertFromWordpress(ctx, "owner", wordpressInput("42"))
	require.NoError(t, err)

	assert.False(t, article.IsPublished, "ingested articles must land as drafts")
	assert.Equal(t, "42", article.WordpressID)
	assert.Equal(t, 1, photos.fetchCount())
	assert.Equal(t, "https://origin.example.com/photo-1.jpg", article.LastWordpressPhotoURL)
	assert.NotEmpty(t, article.PhotoURL)
}

func TestWordpressUpsertIsIdempotent(t *testing.T) {
	svc, _, photos := newTestService(t)
	ctx := context.Background()

	first, err := svc.UpsertFromWordpress(ctx, "owner", wordpressInput("42"))
	require.NoError(t, err)

	// Same payload again: same article, no second photo fetch.
	second, err := svc.UpsertFromWordpress(ctx, "owner", wordpressInput("42"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, photos.fetchCount())

	// A changed photo URL triggers exactly one more fetch.
	in := wordpressInput("42")
	in.PhotoURL = "https://origin.example.com/photo-2.jpg"
	third, err := svc.UpsertFromWordpress(ctx, "owner", in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Equal(t, 2, photos.fetchCount())
	assert.Equal(t, in.PhotoURL, third.LastWordpressPhotoURL)

	// Different publishers never share WordPress ids.
	other, err := svc.UpsertFromWordpress(ctx, "pub-a", wordpressInput("42"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestWordpressPhotoFailureIsNonFatal(t *testing.T) {
	svc, _, photos := newTestService(t)
	photos.fail = true
	ctx := context.Background()

	article, err := svc.UpsertFromWordpress(ctx, "owner", wordpressInput("42"))
	require.NoError(t, err, "a failed photo fetch must not fail the ingest")
	assert.Empty(t, article.PhotoURL)
	assert.Empty(t, article.LastWordpressPhotoURL, "failed fetch must not advance the marker")

	// Once the origin recovers the next ingest retries the same URL.
	photos.fail = false
	retried, err := svc.UpsertFromWordpress(ctx, "owner", wordpressInput("42"))
	require.NoError(t, err)
	assert.Equal(t, 1, photos.fetchCount())
	assert.Equal(t, "https://origin.example.com/photo-1.jpg", retried.LastWordpressPhotoURL)
}

func TestConcurrentReportersNeverLoseReports(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, "owner", publishedInput())
	require.NoError(t, err)

	reporters := []string{"pub-a", "pub-b", "pub-c", "pub-d"}
	var wg sync.WaitGroup
	for _, p := range reporters {
		wg.Add(1)
		go func(publisherID string) {
			defer wg.Done()
			_, err := svc.ReportBy(ctx, article.ID, publisherID)
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()

	got, err := svc.Get(ctx, article.ID, false)
	require.NoError(t, err)
	assert.Equal(t, len(reporters), got.ReportedByLength)
	assert.Len(t, got.ReportedBy, got.ReportedByLength)
	assert.False(t, got.Accessible())
}
