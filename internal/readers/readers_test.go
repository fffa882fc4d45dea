// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package readers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressgate/pressgate/internal/apperr"
	"github.com/pressgate/pressgate/internal/auth"
	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/database"
	"github.com/pressgate/pressgate/internal/facebook"
	"github.com/pressgate/pressgate/internal/models"
)

// recordingSender captures transactional mail instead of delivering it.
type recordingSender struct {
	verifications map[string]string // to -> code
	initialCodes  map[string]string
	fail          bool
}

func newRecordingSender() *recordingSender {
	return &recordingSender{
		verifications: map[string]string{},
		initialCodes:  map[string]string{},
	}
}

func (s *recordingSender) SendVerification(_ context.Context, to, code string) error {
	if s.fail {
		return fmt.Errorf("smtp down")
	}
	s.verifications[to] = code
	return nil
}

func (s *recordingSender) SendInitialCode(_ context.Context, to, code string) error {
	if s.fail {
		return fmt.Errorf("smtp down")
	}
	s.initialCodes[to] = code
	return nil
}

// stubGraph resolves one known access token.
type stubGraph struct {
	token   string
	profile facebook.Profile
}

func (s *stubGraph) FetchProfile(_ context.Context, accessToken string) (*facebook.Profile, error) {
	if accessToken != s.token {
		return nil, fmt.Errorf("graph api returned status 400")
	}
	p := s.profile
	return &p, nil
}

func testTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tokens, err := auth.NewTokenManager(&config.SecurityConfig{
		JWTSecret:      "this_is_a_very_long_secret_key_for_testing_purposes_12345",
		ReaderTokenTTL: time.Hour,
	})
	require.NoError(t, err)
	return tokens
}

func newTestService(t *testing.T) (*Service, *database.Store, *recordingSender, *stubGraph) {
	t.Helper()
	store, err := database.Open(&config.DatabaseConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tokens := testTokenManager(t)
	sender := newRecordingSender()
	graph := &stubGraph{
		token:   "fb-token",
		profile: facebook.Profile{ID: "fb-1", Email: "social@example.com"},
	}
	return NewService(store, tokens, sender, graph), store, sender, graph
}

func TestEmailRegistrationFlow(t *testing.T) {
	svc, _, sender, _ := newTestService(t)
	ctx := context.Background()

	pendingToken, err := svc.RegisterByEmail(ctx, "reader@example.com", "password123")
	require.NoError(t, err)

	// Registration hands back a token, but one without access yet.
	pending, err := testTokenManager(t).VerifyReaderToken(pendingToken)
	require.NoError(t, err)
	assert.False(t, pending.HasAccess)

	code, ok := sender.verifications["reader@example.com"]
	require.True(t, ok, "verification mail must be sent")

	// Login before verification is rejected with the access error.
	_, err = svc.LoginByEmail(ctx, "reader@example.com", "password123")
	assert.True(t, apperr.IsCode(err, apperr.CodeHasNotAccess))

	// Verification with a bogus code fails.
	_, err = svc.VerifyEmail(ctx, "bogus")
	assert.True(t, apperr.IsCode(err, apperr.CodeEmailVerificationFailed))

	// Verification logs the reader straight in.
	verifiedToken, err := svc.VerifyEmail(ctx, code)
	require.NoError(t, err)
	verified, err := testTokenManager(t).VerifyReaderToken(verifiedToken)
	require.NoError(t, err)
	assert.True(t, verified.HasAccess)
	assert.Equal(t, pending.ReaderID, verified.ReaderID)

	// Re-running the link conflicts instead of silently succeeding.
	_, err = svc.VerifyEmail(ctx, code)
	assert.True(t, apperr.IsCode(err, apperr.CodeEmailVerificationFailed),
		"the code index is cleared on verification, so the link reads as unknown")

	token, err := svc.LoginByEmail(ctx, "reader@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Wrong password after verification is still a password error.
	_, err = svc.LoginByEmail(ctx, "reader@example.com", "wrong")
	assert.True(t, apperr.IsCode(err, apperr.CodeIncorrectPassword))
}

func TestRegisterByEmailValidation(t *testing.T) {
	svc, _, sender, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterByEmail(ctx, "not-an-email", "password123")
	assert.True(t, apperr.IsCode(err, apperr.CodeIncorrectEmail))

	_, err = svc.RegisterByEmail(ctx, "dupe@example.com", "password123")
	require.NoError(t, err)
	_, err = svc.RegisterByEmail(ctx, "dupe@example.com", "password123")
	assert.True(t, apperr.IsCode(err, apperr.CodeReaderEmailExists))

	sender.fail = true
	_, err = svc.RegisterByEmail(ctx, "unlucky@example.com", "password123")
	assert.True(t, apperr.IsCode(err, apperr.CodeEmailNotSent))
}

func TestLoginByEmailUnknownReader(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.LoginByEmail(context.Background(), "nobody@example.com", "pw")
	assert.True(t, apperr.IsCode(err, apperr.CodeReaderDoesNotExist))
}

func TestAuthByFacebook(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	// Bad token maps to the Facebook error.
	_, err := svc.AuthByFacebook(ctx, "wrong-token")
	assert.True(t, apperr.IsCode(err, apperr.CodeFacebookError))

	token, err := svc.AuthByFacebook(ctx, "fb-token")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	created, err := store.FindReaderByFacebookID(ctx, "fb-1")
	require.NoError(t, err)
	assert.True(t, created.HasAccess, "delegated accounts start with access")
	assert.Equal(t, models.AuthTypeFacebook, created.AuthType)

	// A second auth reuses the account.
	_, err = svc.AuthByFacebook(ctx, "fb-token")
	require.NoError(t, err)
	again, err := store.FindReaderByFacebookID(ctx, "fb-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func setupVerifiedReader(t *testing.T, svc *Service, store *database.Store) string {
	t.Helper()
	ctx := context.Background()
	_, err := svc.RegisterByEmail(ctx, "lists@example.com", "password123")
	require.NoError(t, err)
	reader, err := store.FindReaderByEmail(ctx, "lists@example.com")
	require.NoError(t, err)
	_, err = svc.VerifyEmail(ctx, reader.EmailVerificationCode)
	require.NoError(t, err)
	return reader.ID
}

func TestReadingLists(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()
	readerID := setupVerifiedReader(t, svc, store)

	article := &models.Article{
		ID:          "art-1",
		Title:       "T",
		PublishedBy: "pub-1",
		RegionID:    "region-1",
		ReportedBy:  []string{},
		IsPublished: true,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, store.InsertArticle(ctx, article))

	// Unknown article cannot be saved.
	err := svc.AddToRead(ctx, readerID, "missing")
	assert.True(t, apperr.IsCode(err, apperr.CodeArticleDoesNotExist))

	require.NoError(t, svc.AddToRead(ctx, readerID, "art-1"))
	err = svc.AddToRead(ctx, readerID, "art-1")
	assert.True(t, apperr.IsCode(err, apperr.CodeArticleAlreadyInToRead))

	page, err := svc.ToReadArticles(ctx, readerID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CountAll)

	require.NoError(t, svc.RemoveToRead(ctx, readerID, "art-1"))
	err = svc.RemoveToRead(ctx, readerID, "art-1")
	assert.True(t, apperr.IsCode(err, apperr.CodeLackOfArticleInToRead))

	require.NoError(t, svc.AddReaded(ctx, readerID, "art-1"))
	err = svc.AddReaded(ctx, readerID, "art-1")
	assert.True(t, apperr.IsCode(err, apperr.CodeArticleAlreadyInReaded))
	require.NoError(t, svc.RemoveReaded(ctx, readerID, "art-1"))
	err = svc.RemoveReaded(ctx, readerID, "art-1")
	assert.True(t, apperr.IsCode(err, apperr.CodeLackOfArticleInReaded))
}

func TestRegionFollowsAndFeed(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()
	readerID := setupVerifiedReader(t, svc, store)

	require.NoError(t, store.InsertRegion(ctx, &models.Region{ID: "region-1", Title: "One"}))
	require.NoError(t, store.InsertRegion(ctx, &models.Region{ID: "region-2", Title: "Two"}))

	err := svc.FollowRegion(ctx, readerID, "nowhere")
	assert.True(t, apperr.IsCode(err, apperr.CodeRegionDoesNotExist))

	// Empty follow list yields an empty feed.
	feed, err := svc.Feed(ctx, readerID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, feed.CountAll)

	require.NoError(t, svc.FollowRegion(ctx, readerID, "region-1"))
	err = svc.FollowRegion(ctx, readerID, "region-1")
	assert.True(t, apperr.IsCode(err, apperr.CodeRegionAlreadyFollowed))

	base := time.Now().UTC()
	for i, regionID := range []string{"region-1", "region-1", "region-2"} {
		require.NoError(t, store.InsertArticle(ctx, &models.Article{
			ID:          fmt.Sprintf("art-%d", i),
			Title:       "T",
			PublishedBy: "pub-1",
			RegionID:    regionID,
			ReportedBy:  []string{},
			IsPublished: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// A draft in a followed region stays out of the feed.
	require.NoError(t, store.InsertArticle(ctx, &models.Article{
		ID:          "art-draft",
		Title:       "T",
		PublishedBy: "pub-1",
		RegionID:    "region-1",
		ReportedBy:  []string{},
		IsPublished: false,
		CreatedAt:   base.Add(time.Hour),
	}))

	feed, err = svc.Feed(ctx, readerID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.CountAll, "feed covers only followed regions, accessible articles only")

	regions, err := svc.FollowedRegions(ctx, readerID)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "region-1", regions[0].ID)

	require.NoError(t, svc.UnfollowRegion(ctx, readerID, "region-1"))
	err = svc.UnfollowRegion(ctx, readerID, "region-1")
	assert.True(t, apperr.IsCode(err, apperr.CodeLackOfRegionInFollowed))
}
