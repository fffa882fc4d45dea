// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package config loads and validates the PressGate configuration using
// koanf: struct defaults, then an optional YAML file, then environment
// variables prefixed with PRESSGATE_.
package config

import "time"

// Config is the root configuration for the PressGate server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Database DatabaseConfig `koanf:"database"`
	Storage  StorageConfig  `koanf:"storage"`
	Email    EmailConfig    `koanf:"email"`
	Facebook FacebookConfig `koanf:"facebook"`
	Regions  RegionsConfig  `koanf:"regions"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// RateLimit is requests per window per client IP for general
	// endpoints; LoginRateLimit applies to credential-bearing endpoints.
	RateLimit       int           `koanf:"rate_limit"`
	RateWindow      time.Duration `koanf:"rate_window"`
	LoginRateLimit  int           `koanf:"login_rate_limit"`
	LoginRateWindow time.Duration `koanf:"login_rate_window"`
}

// SecurityConfig holds token signing and identity bootstrap settings.
type SecurityConfig struct {
	// JWTSecret signs all bearer tokens (HS256). Rotating it invalidates
	// every outstanding token; there is no server-side session table.
	JWTSecret string `koanf:"jwt_secret"`

	AdminTokenTTL     time.Duration `koanf:"admin_token_ttl"`
	PublisherTokenTTL time.Duration `koanf:"publisher_token_ttl"`
	ReaderTokenTTL    time.Duration `koanf:"reader_token_ttl"`

	// DefaultAdminEmail/Password seed the singleton admin when the
	// admin collection is empty at startup.
	DefaultAdminEmail    string `koanf:"default_admin_email"`
	DefaultAdminPassword string `koanf:"default_admin_password"`

	// TOTPIssuer is the issuer name shown in authenticator apps when a
	// publisher enrolls their second factor.
	TOTPIssuer string `koanf:"totp_issuer"`
}

// DatabaseConfig holds document store settings.
type DatabaseConfig struct {
	// Path is the badger data directory. Ignored when InMemory is set.
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// StorageConfig holds file storage and thumbnail settings.
type StorageConfig struct {
	Dir     string `koanf:"dir"`
	BaseURL string `koanf:"base_url"`

	// ImageWidths are the thumbnail target widths generated for every
	// stored image.
	ImageWidths []int `koanf:"image_widths"`

	// MaxFetchBytes caps remote photo downloads during WordPress sync.
	MaxFetchBytes int64         `koanf:"max_fetch_bytes"`
	FetchTimeout  time.Duration `koanf:"fetch_timeout"`
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`

	// StartTLS selects STARTTLS on a plaintext connection; otherwise an
	// implicit-TLS connection is used.
	StartTLS bool `koanf:"starttls"`

	// DeepLinkBase builds the confirmation link embedded in reader
	// verification emails.
	DeepLinkBase string `koanf:"deep_link_base"`
}

// FacebookConfig holds Graph API settings for delegated reader auth.
type FacebookConfig struct {
	GraphURL string        `koanf:"graph_url"`
	Timeout  time.Duration `koanf:"timeout"`
}

// RegionsConfig points at the static region seed file.
type RegionsConfig struct {
	SeedPath string `koanf:"seed_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       300,
			RateWindow:      time.Minute,
			LoginRateLimit:  5,
			LoginRateWindow: 5 * time.Minute,
		},
		Security: SecurityConfig{
			AdminTokenTTL:     time.Hour,
			PublisherTokenTTL: 24 * time.Hour,
			ReaderTokenTTL:    30 * 24 * time.Hour,
			TOTPIssuer:        "PressGate",
		},
		Database: DatabaseConfig{
			Path:       "data",
			GCInterval: 10 * time.Minute,
		},
		Storage: StorageConfig{
			Dir:           "uploads",
			BaseURL:       "http://localhost:5000/images",
			ImageWidths:   []int{320, 480, 800},
			MaxFetchBytes: 10 << 20,
			FetchTimeout:  30 * time.Second,
		},
		Email: EmailConfig{
			Port: 587,
		},
		Facebook: FacebookConfig{
			GraphURL: "https://graph.facebook.com",
			Timeout:  10 * time.Second,
		},
		Regions: RegionsConfig{
			SeedPath: "regions.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
