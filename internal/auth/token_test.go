package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	subject, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if subject != "user-123" {
		t.Fatalf("expected subject user-123, got %q", subject)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"garbage", "", "a.b.c"} {
		if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	forger := NewTokenIssuer("other-secret", time.Hour)

	token, err := forger.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token := signedToken(t, issuer.secret, jwt.RegisteredClaims{
		Subject:   "user-123",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyExpiredAndForgedReadsAsInvalid(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token := signedToken(t, []byte("other-secret"), jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("forged token must read as invalid even when stale, got %v", err)
	}
}

func TestVerifyEmptySubject(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token := signedToken(t, issuer.secret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for missing subject, got %v", err)
	}
}

func signedToken(t *testing.T, secret []byte, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
