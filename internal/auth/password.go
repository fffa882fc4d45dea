// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hash time for resistance to offline cracking.
// Cost 12 takes roughly 250ms per hash on current hardware.
const bcryptCost = 12

// initialCodeDigits is the length of the one-time code mailed to a new
// publisher for their first login.
const initialCodeDigits = 10

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the
// bcrypt hash. bcrypt comparison is constant-time internally.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ConstantTimeEquals compares two strings without leaking the position
// of the first differing byte. Used for one-time code comparison, where
// the stored value is not hashed.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// GenerateInitialCode returns a cryptographically random numeric code
// for a publisher's first login. Leading zeros are allowed.
func GenerateInitialCode() (string, error) {
	code := make([]byte, initialCodeDigits)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate initial code: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// GenerateVerificationCode returns a random hex token for reader email
// verification links.
func GenerateVerificationCode() (string, error) {
	return randomHex(15)
}

// GenerateAPIPassword returns a random hex secret for publisher API
// credentials. Returned in plaintext exactly once; only its bcrypt hash
// is stored.
func GenerateAPIPassword() (string, error) {
	return randomHex(16)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return fmt.Sprintf("%x", buf), nil
}
