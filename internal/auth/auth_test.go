package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hospital-scheduler-api/internal/model"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := MakeToken("u1", model.RoleDoctor, secret)
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	c, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UserID != "u1" || c.Role != model.RoleDoctor {
		t.Errorf("claims: got %s/%s", c.UserID, c.Role)
	}
}

func TestParseTokenRejects(t *testing.T) {
	good, _ := MakeToken("u1", model.RolePatient, secret)

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(secret))

	// alg=none must never be accepted
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name, tok, secret string
	}{
		{"wrong secret", good, "other"},
		{"expired", expired, secret},
		{"alg none", none, secret},
		{"garbage", "not.a.jwt", secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.tok, tt.secret); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("testpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(h, "testpass123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(h, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestRefreshTokenHash(t *testing.T) {
	raw, hash, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(raw) != 64 {
		t.Errorf("raw length: got %d", len(raw))
	}
	if HashRefreshToken(raw) != hash {
		t.Error("hash mismatch")
	}
}
