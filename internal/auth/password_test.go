// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("HashPassword() returned plaintext")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("CheckPassword() rejected matching password")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("CheckPassword() accepted wrong password")
	}
	if CheckPassword("", "anything") {
		t.Error("CheckPassword() accepted empty hash")
	}
}

func TestGenerateInitialCode(t *testing.T) {
	code, err := GenerateInitialCode()
	if err != nil {
		t.Fatalf("GenerateInitialCode() error = %v", err)
	}
	if len(code) != initialCodeDigits {
		t.Errorf("code length = %d, want %d", len(code), initialCodeDigits)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Errorf("code contains non-digit %q", c)
		}
	}

	other, err := GenerateInitialCode()
	if err != nil {
		t.Fatalf("GenerateInitialCode() error = %v", err)
	}
	if code == other {
		t.Error("two generated codes are identical")
	}
}

func TestConstantTimeEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "equal", a: "1234567890", b: "1234567890", want: true},
		{name: "different", a: "1234567890", b: "0987654321", want: false},
		{name: "different length", a: "123", b: "1234", want: false},
		{name: "both empty", a: "", b: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConstantTimeEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("ConstantTimeEquals(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestGenerateVerificationCode(t *testing.T) {
	code, err := GenerateVerificationCode()
	if err != nil {
		t.Fatalf("GenerateVerificationCode() error = %v", err)
	}
	if len(code) != 30 {
		t.Errorf("code length = %d, want 30", len(code))
	}
}
