package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recruithub/apiserver/types"
)

type contextKey string

const contextUserKey contextKey = "user"

// ErrorResponse is the error payload every endpoint returns. Error is
// populated only in development mode, for 500s.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// userFromContext returns the sanitized user the authorization gate
// attached to the request.
func userFromContext(ctx context.Context) (types.User, error) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	if !ok || user.ID == "" {
		return types.User{}, errors.New("no authenticated user in context")
	}
	return user, nil
}

func withUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, contextUserKey, user)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}
