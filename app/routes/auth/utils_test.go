package auth

import (
	"strings"
	"testing"
	"workpay/app/models"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "owner@example.com", "Owner", "One", models.RoleOwner)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", claims.UserID)
	}
	if claims.Role != models.RoleOwner {
		t.Errorf("expected role %s, got %s", models.RoleOwner, claims.Role)
	}
	if claims.Issuer != "workpay" {
		t.Errorf("expected issuer workpay, got %s", claims.Issuer)
	}
}

func TestValidateJWT_Tampered(t *testing.T) {
	token, err := GenerateJWT("user-1", "owner@example.com", "Owner", "One", models.RoleOwner)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	parts := strings.Split(token, ".")
	parts[2] = "invalidsignature"
	if _, err := ValidateJWT(strings.Join(parts, ".")); err == nil {
		t.Error("expected a tampered token to be rejected")
	}

	if _, err := ValidateJWT("not-a-token"); err == nil {
		t.Error("expected a malformed token to be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("expected the correct password to verify")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("expected a wrong password to fail")
	}
}
