package util

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTGenerateAndParse(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	userID := uuid.New()

	token, expiresAt, err := manager.Generate(userID, "ada@example.com", "admin", "individual")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatal("expected expiry in the future")
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "ada@example.com" || claims.Role != "admin" || claims.UserType != "individual" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTParseRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, _, err := manager.Generate(uuid.New(), "ada@example.com", "user", "individual")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestJWTParseRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, _, err := manager.Generate(uuid.New(), "ada@example.com", "user", "individual")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := manager.Parse(token); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}

func TestJWTParseRejectsGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	if _, err := manager.Parse("not-a-jwt"); err == nil {
		t.Fatal("expected parse failure for malformed token")
	}
}
