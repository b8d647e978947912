package auth

import (
	"testing"
	"time"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "scholarhub-api",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := testManager()

	token, jti, err := manager.GenerateAccessToken(42, "student@example.com", "STUDENT", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if jti == "" {
		t.Fatal("expected a non-empty JTI")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "student@example.com" || claims.Role != "STUDENT" {
		t.Errorf("claims = %+v, want the minted identity back", claims)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("token type = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("token version = %d, want 3", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("claims JTI = %q, want %q", claims.ID, jti)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := testManager().GenerateAccessToken(1, "a@example.com", "STUDENT", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour})
	if _, err := other.ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := NewJWTManager(JWTConfig{Secret: "test-secret", Expiry: -time.Minute})

	token, _, err := manager.GenerateAccessToken(1, "a@example.com", "STUDENT", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := manager.ValidateToken(token); err != ErrExpiredToken {
		t.Fatalf("expired token = %v, want ErrExpiredToken", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	manager := testManager()

	refresh, _, err := manager.GenerateRefreshToken(7, "uni@example.com", "UNIVERSITY", 1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	access, _, err := manager.RefreshAccessToken(refresh, 1)
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}
	claims, err := manager.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("refreshed token type = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
	if claims.UserID != 7 {
		t.Errorf("refreshed user id = %d, want 7", claims.UserID)
	}
}

func TestRefreshAccessTokenRejectsAccessToken(t *testing.T) {
	manager := testManager()

	access, _, err := manager.GenerateAccessToken(7, "uni@example.com", "UNIVERSITY", 1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, _, err := manager.RefreshAccessToken(access, 1); err != ErrInvalidToken {
		t.Fatalf("access token as refresh = %v, want ErrInvalidToken", err)
	}
}

func TestGetTokenExpiry(t *testing.T) {
	manager := testManager()

	before := time.Now()
	token, _, err := manager.GenerateAccessToken(1, "a@example.com", "STUDENT", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	expiry, err := manager.GetTokenExpiry(token)
	if err != nil {
		t.Fatalf("GetTokenExpiry: %v", err)
	}
	if expiry.Before(before.Add(59 * time.Minute)) {
		t.Errorf("expiry = %v, want roughly an hour out", expiry)
	}
}
