package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recruithub/apiserver/internal/auth"
	"github.com/recruithub/apiserver/internal/services"
	"github.com/recruithub/apiserver/types"
	"github.com/rs/zerolog"
)

// AuthHandler provides the registration, login, and profile endpoints.
type AuthHandler struct {
	service *services.AuthService
	log     zerolog.Logger
	devMode bool
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(service *services.AuthService, log zerolog.Logger, devMode bool) *AuthHandler {
	return &AuthHandler{service: service, log: log, devMode: devMode}
}

// AuthRouter registers the auth routes on the given router.
func AuthRouter(r chi.Router, service *services.AuthService, issuer *auth.TokenIssuer, log zerolog.Logger, devMode bool) {
	handler := NewAuthHandler(service, log, devMode)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(RequireAuth(issuer, service)).Get("/profile", handler.Profile)
}

// Register creates a new account and returns a bearer token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide name, email, and password")
		return
	}

	user, token, err := h.service.Register(r.Context(), input)
	if err != nil {
		var validation *services.ValidationError
		switch {
		case errors.As(err, &validation):
			writeError(w, http.StatusBadRequest, validation.Message)
		case errors.Is(err, services.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User with this email already exists")
		default:
			h.serverError(w, "Server error during registration", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, token, err := h.service.Login(r.Context(), input)
	if err != nil {
		var validation *services.ValidationError
		switch {
		case errors.As(err, &validation):
			writeError(w, http.StatusBadRequest, validation.Message)
		case errors.Is(err, services.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, "Invalid credentials")
		default:
			h.serverError(w, "Server error during login", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

// Profile returns the authenticated user attached by the gate.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		Message: "Profile retrieved successfully",
		User:    user,
	})
}

func (h *AuthHandler) serverError(w http.ResponseWriter, message string, err error) {
	h.log.Error().Err(err).Msg(message)
	resp := ErrorResponse{Message: message}
	if h.devMode {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}

// ProfileResponse is returned by the profile endpoint.
type ProfileResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}
