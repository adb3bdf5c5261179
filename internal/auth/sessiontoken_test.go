package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifySessionToken_ValidToken(t *testing.T) {
	secret := "test_secret"
	now := time.Unix(1700000000, 0)

	claims := SessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "sapaghor-auth",
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		},
		Email: "mina@sapaghor.example",
		Role:  "manager",
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := VerifySessionToken(s, secret, "sapaghor-auth", now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.ID != 42 || got.Role != "manager" {
		t.Fatalf("unexpected staff identity: %+v", got)
	}
}

func TestVerifySessionToken_RejectsExpired(t *testing.T) {
	secret := "test_secret"
	now := time.Unix(1700000000, 0)

	claims := SessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := VerifySessionToken(s, secret, "", now); err == nil {
		t.Fatalf("expected expiry error")
	}
}
