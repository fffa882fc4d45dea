// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package models

import "time"

// AuthType distinguishes how a reader authenticates.
type AuthType string

const (
	// AuthTypeEmail marks readers registered with email and password.
	// They start without access and must verify their email address.
	AuthTypeEmail AuthType = "EMAIL"

	// AuthTypeFacebook marks readers created through Facebook delegated
	// auth. Trust is delegated, so they are created with access.
	AuthTypeFacebook AuthType = "FACEBOOK"
)

// Admin is a platform administrator. The collection is singleton-seeded:
// if no admin exists at startup, one is created from configuration.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Publisher is a tenant that owns and publishes articles.
//
// PasswordHash is empty until the publisher completes the one-time
// set-password step; once set it is never cleared. APIKey and
// APIPasswordHash are empty until an admin creates API credentials for
// the WordPress bridge.
type Publisher struct {
	ID                 string   `json:"id"`
	Email              string   `json:"email"`
	PasswordHash       string   `json:"passwordHash,omitempty"`
	InitialCode        string   `json:"initialCode,omitempty"`
	SecondFactorSecret string   `json:"secondFactorSecret,omitempty"`
	APIKey             string   `json:"apiKey,omitempty"`
	APIPasswordHash    string   `json:"apiPasswordHash,omitempty"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Authors            []string `json:"authors"`
	LogoURL            string   `json:"logoUrl"`
	PatroniteURL       string   `json:"patroniteUrl"`
	FacebookURL        string   `json:"facebookUrl"`
	TwitterURL         string   `json:"twitterUrl"`
	WWW                string   `json:"www"`

	// ArticlesReported lists article ids this publisher has reported.
	// Mutated only by the reporting protocol, in the same transaction
	// as the article's reportedBy set.
	ArticlesReported []string `json:"articlesReported"`

	CreatedAt time.Time `json:"createdAt"`
}

// HasPassword reports whether the publisher completed onboarding.
func (p *Publisher) HasPassword() bool {
	return p.PasswordHash != ""
}

// CleanedPublisher is the public projection of a publisher with all
// credential material stripped.
type CleanedPublisher struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Authors      []string `json:"authors"`
	LogoURL      string   `json:"logoUrl"`
	PatroniteURL string   `json:"patroniteUrl"`
	FacebookURL  string   `json:"facebookUrl"`
	TwitterURL   string   `json:"twitterUrl"`
	WWW          string   `json:"www"`
}

// Cleaned returns the public projection of the publisher.
func (p *Publisher) Cleaned() CleanedPublisher {
	return CleanedPublisher{
		ID:           p.ID,
		Email:        p.Email,
		Name:         p.Name,
		Description:  p.Description,
		Authors:      p.Authors,
		LogoURL:      p.LogoURL,
		PatroniteURL: p.PatroniteURL,
		FacebookURL:  p.FacebookURL,
		TwitterURL:   p.TwitterURL,
		WWW:          p.WWW,
	}
}

// Reader is an end user browsing and curating articles.
//
// EMAIL readers start with HasAccess=false until they verify their email
// address; FACEBOOK readers are created with HasAccess=true.
type Reader struct {
	ID                    string   `json:"id"`
	AuthType              AuthType `json:"authType"`
	Email                 string   `json:"email"`
	PasswordHash          string   `json:"passwordHash,omitempty"`
	FacebookID            string   `json:"facebookId,omitempty"`
	EmailVerificationCode string   `json:"emailVerificationCode,omitempty"`
	HasAccess             bool     `json:"hasAccess"`

	ToReadArticles  []string `json:"toReadArticles"`
	ReadedArticles  []string `json:"readedArticles"`
	FollowedRegions []string `json:"followedRegions"`

	CreatedAt time.Time `json:"createdAt"`
}
