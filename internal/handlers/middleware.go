package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/recruithub/apiserver/internal/auth"
	"github.com/recruithub/apiserver/internal/services"
	"github.com/recruithub/apiserver/internal/store"
)

// RequireAuth builds the authorization gate: it extracts the bearer
// token, verifies it, resolves the subject to a user, and attaches the
// sanitized record to the request context. Every failure is terminal
// for the request and answered with a 401 whose message distinguishes
// missing, malformed, expired, invalid, and orphaned tokens without
// revealing internals.
func RequireAuth(issuer *auth.TokenIssuer, service *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMessage := bearerToken(r)
			if errMessage != "" {
				writeError(w, http.StatusUnauthorized, errMessage)
				return
			}

			subject, err := issuer.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					writeError(w, http.StatusUnauthorized, "Token has expired")
					return
				}
				writeError(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			user, err := service.ResolveSubject(r.Context(), subject)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeError(w, http.StatusUnauthorized, "Token is not valid, user not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "Server error during authentication")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// bearerToken extracts the token from the Authorization header. The
// returned message is empty on success and is the exact 401 body
// otherwise, so missing and malformed headers stay distinguishable.
func bearerToken(r *http.Request) (token, errMessage string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "No token provided, authorization denied"
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", "Invalid token format, authorization denied"
	}

	token = strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", "No token provided, authorization denied"
	}
	return token, ""
}
