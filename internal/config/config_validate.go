// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package config

import (
	"errors"
	"fmt"
)

// minJWTSecretLength enforces a minimum signing key size; shorter secrets
// make HS256 tokens forgeable in practice.
const minJWTSecretLength = 32

// Validate checks the configuration for values the server cannot start
// without. It returns the first problem found.
func (c *Config) Validate() error {
	if c.Security.JWTSecret == "" {
		return errors.New("security.jwt_secret is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("security.jwt_secret must be at least %d characters", minJWTSecretLength)
	}
	if c.Security.DefaultAdminEmail == "" || c.Security.DefaultAdminPassword == "" {
		return errors.New("security.default_admin_email and security.default_admin_password are required for admin seeding")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		return errors.New("database.path is required unless database.in_memory is set")
	}
	if c.Storage.Dir == "" {
		return errors.New("storage.dir is required")
	}
	if len(c.Storage.ImageWidths) == 0 {
		return errors.New("storage.image_widths must list at least one width")
	}
	for _, w := range c.Storage.ImageWidths {
		if w <= 0 {
			return fmt.Errorf("storage.image_widths contains invalid width %d", w)
		}
	}
	if c.Email.Host != "" && c.Email.From == "" {
		return errors.New("email.from is required when email.host is set")
	}
	return nil
}
