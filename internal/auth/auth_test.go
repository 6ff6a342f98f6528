package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tbourn/go-task-backend/internal/apperr"
	"github.com/tbourn/go-task-backend/internal/domain"
)

func TestHashPassword_NeverPlaintext(t *testing.T) {
	digest, err := HashPassword("hunter22", DefaultBcryptCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if digest == "hunter22" {
		t.Fatal("digest must not equal the plaintext")
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Fatalf("unexpected digest format: %q", digest)
	}
}

func TestCheckPassword(t *testing.T) {
	digest, err := HashPassword("correct horse", 4) // min cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword("correct horse", digest) {
		t.Fatal("expected match for the right password")
	}
	if CheckPassword("wrong horse", digest) {
		t.Fatal("expected mismatch for the wrong password")
	}
}

func TestHashPassword_CostFallback(t *testing.T) {
	digest, err := HashPassword("p", 0)
	if err != nil {
		t.Fatalf("HashPassword with zero cost: %v", err)
	}
	if digest == "" {
		t.Fatal("expected a digest")
	}
}

func TestIssueAndParseToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	u := &domain.User{ID: 42, Email: "a@b.co"}

	tok, err := IssueToken(secret, time.Hour, u)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := ParseToken(secret, tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "a@b.co" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseToken_Expired_DistinctMessage(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := IssueToken(secret, -time.Minute, &domain.User{ID: 1, Email: "x@y.z"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	_, err = ParseToken(secret, tok)
	e, ok := apperr.As(err)
	if !ok || e.Kind() != apperr.KindAuthentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if e.Message() != "Token expired" {
		t.Fatalf("expired token message: got %q", e.Message())
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := IssueToken([]byte("secret-a"), time.Hour, &domain.User{ID: 1, Email: "x@y.z"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	_, err = ParseToken([]byte("secret-b"), tok)
	e, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected typed error, got %v", err)
	}
	if e.Message() != "Invalid token" {
		t.Fatalf("bad signature message: got %q", e.Message())
	}
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken([]byte("s"), "not.a.token")
	if !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestParseToken_RejectsUnexpectedAlg(t *testing.T) {
	// A token signed with "none" must never verify, even with the right secret.
	claims := Claims{UserID: 7, Email: "x@y.z", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseToken([]byte("s"), tok); err == nil {
		t.Fatal("token with alg=none must be rejected")
	}
}

func TestIssueToken_TTLFallback(t *testing.T) {
	secret := []byte("s")
	tok, err := IssueToken(secret, 0, &domain.User{ID: 1, Email: "x@y.z"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	claims, err := ParseToken(secret, tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	exp := claims.ExpiresAt.Time
	if until := time.Until(exp); until < 23*time.Hour || until > 25*time.Hour {
		t.Fatalf("default TTL should be ~24h, got %v", until)
	}
}
