// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = "this_is_a_very_long_secret_key_with_32_plus_characters"
	cfg.Security.DefaultAdminEmail = "admin@example.com"
	cfg.Security.DefaultAdminPassword = "bootstrap"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "" },
			wantErr: true,
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "too-short" },
			wantErr: true,
		},
		{
			name:    "missing admin email",
			mutate:  func(c *Config) { c.Security.DefaultAdminEmail = "" },
			wantErr: true,
		},
		{
			name:    "missing admin password",
			mutate:  func(c *Config) { c.Security.DefaultAdminPassword = "" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name: "in-memory needs no path",
			mutate: func(c *Config) {
				c.Database.Path = ""
				c.Database.InMemory = true
			},
			wantErr: false,
		},
		{
			name:    "empty image widths",
			mutate:  func(c *Config) { c.Storage.ImageWidths = nil },
			wantErr: true,
		},
		{
			name:    "non-positive image width",
			mutate:  func(c *Config) { c.Storage.ImageWidths = []int{320, 0} },
			wantErr: true,
		},
		{
			name: "smtp host without from address",
			mutate: func(c *Config) {
				c.Email.Host = "smtp.example.com"
				c.Email.From = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromAppliesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8080
security:
  jwt_secret: this_is_a_very_long_secret_key_with_32_plus_characters
  default_admin_email: admin@example.com
  default_admin_password: bootstrap
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv("PRESSGATE_LOGGING_LEVEL", "debug")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080 (file override)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug (env override)", cfg.Logging.Level)
	}
	if cfg.Storage.MaxFetchBytes != 10<<20 {
		t.Errorf("MaxFetchBytes = %d, want default %d", cfg.Storage.MaxFetchBytes, 10<<20)
	}
}
