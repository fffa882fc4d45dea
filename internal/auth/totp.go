// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package auth

import (
	"fmt"

	"github.com/pquerna/otp/totp"
)

// GenerateTOTPSecret creates a new TOTP secret for a publisher account.
// The secret is returned once, at set-password time, and is never shown
// again; the publisher enrolls it in their authenticator app from the
// response.
func GenerateTOTPSecret(issuer, accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate totp secret: %w", err)
	}
	return key.Secret(), nil
}

// ValidateTOTPCode reports whether the six-digit code is currently valid
// for the secret. The underlying validator accepts a one-period skew in
// either direction.
func ValidateTOTPCode(code, secret string) bool {
	return totp.Validate(code, secret)
}
