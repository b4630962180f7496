package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager("test-secret", "nomad-cabs", time.Hour)
	user := models.User{ID: "user-1", Email: "rider@example.com", Role: models.RoleRider}

	raw, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := tm.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("UserID = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Role != models.RoleRider {
		t.Fatalf("Role = %q, want %q", claims.Role, models.RoleRider)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuing := NewTokenManager("secret-a", "nomad-cabs", time.Hour)
	verifying := NewTokenManager("secret-b", "nomad-cabs", time.Hour)

	raw, err := issuing.Generate(models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := verifying.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", "nomad-cabs", -time.Minute)

	raw, err := tm.Generate(models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := tm.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	issuing := NewTokenManager("test-secret", "someone-else", time.Hour)
	verifying := NewTokenManager("test-secret", "nomad-cabs", time.Hour)

	raw, err := issuing.Generate(models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := verifying.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}
