package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken(Identity{UserID: 7, UUID: "u-7", Email: "a@x.io", Role: "admin"}, "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := Parse(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "admin" || claims.Subject != "7" || claims.Issuer != Issuer {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, err := Parse(token, "other"); err == nil {
		t.Fatal("expected signature failure with wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := GenerateToken(Identity{UserID: 1}, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Parse(token, "secret"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestInspectSkipsVerification(t *testing.T) {
	token, err := GenerateToken(Identity{UserID: 3, Email: "b@x.io"}, "server-only", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := Inspect(token)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if claims.Email != "b@x.io" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if !claims.Expired(time.Now()) {
		t.Fatal("expected token to report expired")
	}
}

func TestInspectOpaqueToken(t *testing.T) {
	if _, err := Inspect("abc123"); !errors.Is(err, ErrNotJWT) {
		t.Fatalf("expected ErrNotJWT, got %v", err)
	}
}

func TestClaimsWithoutExpiry(t *testing.T) {
	var c Claims
	if c.Expired(time.Now()) || !c.ExpiresAtTime().IsZero() {
		t.Fatal("claims without exp should never expire")
	}
}
