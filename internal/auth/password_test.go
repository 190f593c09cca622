// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package auth

import (
	"strings"
	"testing"
)

// Tests use the bcrypt minimum cost to keep the suite fast; production
// cost comes from config.

func TestHashAndVerifyPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "simple password",
			password: "correct-horse-battery",
		},
		{
			name:     "password with unicode",
			password: "pässwörd-日本語",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, 4)
			if err != nil {
				t.Fatalf("HashPassword() error = %v", err)
			}
			if hash == tt.password {
				t.Error("HashPassword() returned the plaintext")
			}
			if !strings.HasPrefix(hash, "$2") {
				t.Errorf("HashPassword() = %q, not a bcrypt hash", hash)
			}

			if err := VerifyPassword(hash, tt.password); err != nil {
				t.Errorf("VerifyPassword() error = %v for correct password", err)
			}
			if err := VerifyPassword(hash, "wrong-password"); err == nil {
				t.Error("VerifyPassword() accepted a wrong password")
			}
		})
	}
}

func TestHashPassword_DefaultCost(t *testing.T) {
	// Cost 0 falls back to the default; the hash must still verify.
	hash, err := HashPassword("some-password", 0)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := VerifyPassword(hash, "some-password"); err != nil {
		t.Errorf("VerifyPassword() error = %v", err)
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	// bcrypt rejects inputs over 72 bytes.
	long := strings.Repeat("a", 80)
	if _, err := HashPassword(long, 4); err == nil {
		t.Error("HashPassword() accepted a 80-byte password")
	}
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	h2, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical; salt missing")
	}
}
