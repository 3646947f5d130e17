package util

import (
	"bytes"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	valid := []string{"abcdefg1", "correct1horse", "A1b2c3d4"}
	for _, password := range valid {
		if err := ValidatePassword(password); err != nil {
			t.Fatalf("password %q should be accepted: %v", password, err)
		}
	}

	invalid := []string{"", "short1", "onlyletters", "12345678"}
	for _, password := range invalid {
		if err := ValidatePassword(password); err == nil {
			t.Fatalf("password %q should be rejected", password)
		}
	}
}

func TestDeriveAndVerifyPassword(t *testing.T) {
	hash, salt, err := DerivePassword("correct1horse")
	if err != nil {
		t.Fatalf("DerivePassword returned error: %v", err)
	}
	if len(hash) == 0 || len(salt) == 0 {
		t.Fatal("expected non-empty hash and salt")
	}

	if !VerifyPassword("correct1horse", salt, hash) {
		t.Fatal("correct password failed to verify")
	}
	if VerifyPassword("wrong1password", salt, hash) {
		t.Fatal("wrong password verified")
	}
	if VerifyPassword("", salt, hash) {
		t.Fatal("empty password verified")
	}
	if VerifyPassword("correct1horse", nil, hash) {
		t.Fatal("missing salt verified")
	}
}

func TestDerivePasswordUsesFreshSalt(t *testing.T) {
	hash1, salt1, err := DerivePassword("correct1horse")
	if err != nil {
		t.Fatalf("DerivePassword returned error: %v", err)
	}
	hash2, salt2, err := DerivePassword("correct1horse")
	if err != nil {
		t.Fatalf("DerivePassword returned error: %v", err)
	}
	if bytes.Equal(salt1, salt2) {
		t.Fatal("expected distinct salts for repeated derivations")
	}
	if bytes.Equal(hash1, hash2) {
		t.Fatal("expected distinct hashes under distinct salts")
	}
}
