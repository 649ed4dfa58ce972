package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/BelowZeroPortfolio/school-scan-sub001/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: ttl,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	token, err := m.GenerateAccessToken("user-1", "teacher")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", claims.UserID)
	}
	if claims.Role != "teacher" {
		t.Errorf("Role = %s, want teacher", claims.Role)
	}
	if claims.Issuer != "school-scan" {
		t.Errorf("Issuer = %s, want school-scan", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI must not be empty")
	}
	if ttl := claims.RemainingTTL(time.Now()); ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("RemainingTTL = %v", ttl)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.GenerateAccessToken("user-1", "teacher")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("want ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := newTestManager(time.Minute).GenerateAccessToken("user-1", "admin")

	other := NewManager(&config.AuthConfig{JWTSecret: "another-secret-key-0000000", AccessTokenTTL: time.Minute})
	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m := newTestManager(time.Minute)
	claims := Claims{
		UserID: "user-1",
		Role:   "admin",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager(time.Minute)
	if _, err := m.ParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}
