// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package facebook resolves Facebook access tokens to profiles through
// the Graph API. Only the id and email fields are requested; the token
// itself is the proof of identity.
package facebook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/pressgate/pressgate/internal/config"
)

// Profile is the subset of the Graph /me response the platform uses.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Client resolves access tokens against the Graph API. Implemented by
// GraphClient; tests substitute a stub.
type Client interface {
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// GraphClient talks to the real Graph API.
type GraphClient struct {
	graphURL string
	client   *http.Client
}

// NewGraphClient creates a client from the Facebook configuration.
func NewGraphClient(cfg *config.FacebookConfig) *GraphClient {
	return &GraphClient{
		graphURL: cfg.GraphURL,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchProfile exchanges an access token for the id and email of the
// account it belongs to. Any Graph failure, including an expired or
// forged token, comes back as an error.
func (c *GraphClient) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/me?fields=id,email&access_token=%s",
		c.graphURL, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call graph api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read graph response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph api returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode graph response: %w", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("graph response missing account id")
	}
	return &profile, nil
}
