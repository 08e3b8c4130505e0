package utils

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "testpassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "" {
		t.Error("HashPassword() returned empty string")
	}

	if hash == password {
		t.Error("HashPassword() should not return plaintext password")
	}

	if len(hash) < 50 {
		t.Errorf("hash seems too short: %d chars", len(hash))
	}
}

func TestHashPassword_DifferentHashes(t *testing.T) {
	password := "testpassword"

	hash1, _ := HashPassword(password)
	hash2, _ := HashPassword(password)

	if hash1 == hash2 {
		t.Error("same password should produce different hashes (due to salt)")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "correctpassword"
	hash, _ := HashPassword(password)

	tests := []struct {
		name     string
		password string
		expected bool
	}{
		{"correct password", "correctpassword", true},
		{"wrong password", "wrongpassword", false},
		{"empty password", "", false},
		{"similar password", "correctpassword1", false},
		{"case sensitive", "CorrectPassword", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckPassword(tt.password, hash)
			if result != tt.expected {
				t.Errorf("CheckPassword(%q) = %v, expected %v", tt.password, result, tt.expected)
			}
		})
	}
}

func TestIsBcryptHash(t *testing.T) {
	hash, _ := HashPassword("anything")
	if !IsBcryptHash(hash) {
		t.Errorf("fresh hash %q should be recognized as bcrypt", hash)
	}

	legacyValues := []string{
		"",
		"plaintext-password",
		"md5:5f4dcc3b5aa765d61d8327deb882cf99",
		"$1$legacy$crypt",
	}
	for _, v := range legacyValues {
		if IsBcryptHash(v) {
			t.Errorf("IsBcryptHash(%q) = true, expected false", v)
		}
	}
}

func TestSetBcryptCost_RejectsLowCost(t *testing.T) {
	original := bcryptCost
	defer func() { bcryptCost = original }()

	SetBcryptCost(4)
	if bcryptCost == 4 {
		t.Error("cost below 10 should be rejected")
	}

	SetBcryptCost(10)
	if bcryptCost != 10 {
		t.Errorf("cost = %d, expected 10", bcryptCost)
	}
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken() error = %v", err)
	}

	if len(token) != 64 {
		t.Errorf("token length = %d, expected 64 hex chars", len(token))
	}

	other, _ := GenerateSecureToken(32)
	if token == other {
		t.Error("two generated tokens should not collide")
	}
}
