package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrTokenInvalid is returned for tokens that fail signature or
	// structural checks, including forged and truncated tokens.
	ErrTokenInvalid = errors.New("token is not valid")

	// ErrTokenExpired is returned for correctly signed tokens whose
	// expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
)

// TokenIssuer mints and verifies HS256-signed bearer tokens carrying a
// subject identifier. The signing secret is fixed at construction;
// callers must not create an issuer with an empty secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer constructs a TokenIssuer. A non-positive ttl falls
// back to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token asserting the given subject, valid from
// now until now plus the issuer's TTL.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks the token's signature and expiry and returns the
// embedded subject. Signature failures and structural problems map to
// ErrTokenInvalid; a correctly signed but stale token maps to
// ErrTokenExpired.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		// A tampered token can be both unverifiable and stale; the
		// signature verdict wins so forgeries never read as "expired".
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return "", ErrTokenInvalid
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid {
		return "", ErrTokenInvalid
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrTokenInvalid
	}
	return subject, nil
}
