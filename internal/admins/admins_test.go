// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package admins

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
)

type recordingSender struct {
	initialCodes map[string]string
	fail         bool
}

func (s *recordingSender) SendVerification(_ context.Context, to, code string) error {
	return nil
}

func (s *recordingSender) SendInitialCode(_ context.Context, to, code string) error {
	if s.fail {
		return fmt.Errorf("smtp down")
	}
	s.initialCodes[to] = code
	return nil
}

func newTestService(t *testing.T) (*Service, *database.Store, *recordingSender, *config.SecurityConfig) {
	t.Helper()
	store, err := database.Open(&config.DatabaseConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.SecurityConfig{
		JWTSecret:            "this_is_a_very_long_secret_key_for_testing_purposes_12345",
		AdminTokenTTL:        time.Hour,
		DefaultAdminEmail:    "admin@example.com",
		DefaultAdminPassword: "bootstrap-password",
	}
	tokens, err := auth.NewTokenManager(cfg)
	require.NoError(t, err)

	sender := &recordingSender{initialCodes: map[string]string{}}
	return NewService(store, tokens, sender), store, sender, cfg
}

func TestEnsureDefaultAdminSeedsOnce(t *testing.T) {
	svc, store, _, cfg := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx, cfg))

	count, err := store.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A second run with a different password changes nothing.
	cfg2 := *cfg
	cfg2.DefaultAdminPassword = "rotated-password"
	require.NoError(t, svc.EnsureDefaultAdmin(ctx, &cfg2))

	count, err = store.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.Login(ctx, "admin@example.com", "bootstrap-password")
	assert.NoError(t, err, "original password must still work after re-seed attempt")
}

func TestAdminLogin(t *testing.T) {
	svc, _, _, cfg := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaultAdmin(ctx, cfg))

	token, err := svc.Login(ctx, "admin@example.com", "bootstrap-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login(ctx, "admin@example.com", "wrong")
	assert.True(t, apperr.IsCode(err, apperr.CodeIncorrectPassword))

	_, err = svc.Login(ctx, "other@example.com", "bootstrap-password")
	assert.True(t, apperr.IsCode(err, apperr.CodeAdminDoesNotExist))
}

func TestCreatePublisherMailsInitialCode(t *testing.T) {
	svc, store, sender, _ := newTestService(t)
	ctx := context.Background()

	publisher, err := svc.CreatePublisher(ctx, &CreatePublisherInput{
		Email: "press@example.com",
		Name:  "Example Press",
	})
	require.NoError(t, err)

	code, ok := sender.initialCodes["press@example.com"]
	require.True(t, ok, "initial code mail must be sent")
	assert.Len(t, code, 10)

	stored, err := store.GetPublisher(ctx, publisher.ID)
	require.NoError(t, err)
	assert.Equal(t, code, stored.InitialCode)
	assert.False(t, stored.HasPassword())
}

func TestCreatePublisherSurfacesMailFailure(t *testing.T) {
	svc, _, sender, _ := newTestService(t)
	sender.fail = true

	_, err := svc.CreatePublisher(context.Background(), &CreatePublisherInput{
		Email: "press@example.com",
		Name:  "Example Press",
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeEmailNotSent))
}
