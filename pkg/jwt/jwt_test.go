package jwt

import (
	"errors"
	"testing"
	"time"

	"tipsy/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateToken("ext-42", "Aisha", "aisha@example.com", 15*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.Subject != "ext-42" {
		t.Errorf("Subject = %q, want ext-42", claims.Subject)
	}
	if claims.Name != "Aisha" {
		t.Errorf("Name = %q, want Aisha", claims.Name)
	}
	if claims.Email != "aisha@example.com" {
		t.Errorf("Email = %q, want aisha@example.com", claims.Email)
	}
	if claims.ID == "" {
		t.Error("jti should not be empty")
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	m := newTestManager()

	_, err := m.ParseToken("invalid.token.string")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{JWTSecret: "a-completely-different-secret"})

	token, _ := m1.GenerateToken("ext-1", "", "", time.Minute)
	if _, err := m2.ParseToken(token); err == nil {
		t.Error("token signed with another secret must not verify")
	}
}

func TestParseToken_ExpiredToken(t *testing.T) {
	m := newTestManager()

	token, _ := m.GenerateToken("ext-1", "", "", -time.Minute)

	_, err := m.ParseToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("want ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_EmptySubject(t *testing.T) {
	m := newTestManager()

	token, _ := m.GenerateToken("", "No One", "", time.Minute)

	_, err := m.ParseToken(token)
	if !errors.Is(err, ErrNoSubject) {
		t.Errorf("want ErrNoSubject, got %v", err)
	}
}

func TestParseToken_IssuerMismatch(t *testing.T) {
	issuer := NewManager(&config.AuthConfig{JWTSecret: "test-secret-key-for-unit-testing-2026", JWTIssuer: "other"})
	verifier := NewManager(&config.AuthConfig{JWTSecret: "test-secret-key-for-unit-testing-2026", JWTIssuer: "tipsy"})

	token, _ := issuer.GenerateToken("ext-1", "", "", time.Minute)
	if _, err := verifier.ParseToken(token); err == nil {
		t.Error("token from a different issuer must not verify")
	}
}
