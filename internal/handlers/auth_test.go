package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/recruithub/apiserver/internal/auth"
	"github.com/recruithub/apiserver/internal/handlers"
	"github.com/recruithub/apiserver/internal/services"
	"github.com/recruithub/apiserver/internal/store"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret"

type testEnv struct {
	router *chi.Mux
	repo   *store.MemoryRepository
}

func newTestEnv() *testEnv {
	repo := store.NewMemoryRepository()
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	service := services.NewAuthService(repo, issuer, zerolog.Nop())

	router := chi.NewRouter()
	router.NotFound(handlers.NotFound)
	router.Get("/healthz", handlers.Healthz("test"))
	handlers.AuthRouter(router, service, issuer, zerolog.Nop(), false)

	return &testEnv{router: router, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRegisterLoginProfileScenario(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"name":     "Ada",
		"email":    "ada@x.com",
		"password": "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("register response must not leak password material: %s", rec.Body.String())
	}

	registered := decodeBody(t, rec)
	user, _ := registered["user"].(map[string]any)
	if user["id"] == "" || user["id"] == nil {
		t.Fatalf("registered user must have a generated id")
	}
	if user["createdAt"] == "" || user["createdAt"] == nil {
		t.Fatalf("registered user must have a creation timestamp")
	}

	rec = env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email":    "ada@x.com",
		"password": "secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	loggedIn := decodeBody(t, rec)
	token, _ := loggedIn["token"].(string)
	if token == "" {
		t.Fatalf("login must return a token")
	}
	loginUser, _ := loggedIn["user"].(map[string]any)
	if loginUser["id"] != user["id"] {
		t.Fatalf("login user id %v does not match registered id %v", loginUser["id"], user["id"])
	}

	rec = env.do(t, http.MethodGet, "/profile", "Bearer "+token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	profile := decodeBody(t, rec)
	profileUser, _ := profile["user"].(map[string]any)
	if profileUser["id"] != user["id"] || profileUser["email"] != "ada@x.com" {
		t.Fatalf("profile returned wrong user: %v", profileUser)
	}

	rec = env.do(t, http.MethodGet, "/profile", "Bearer garbage", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Token is not valid" {
		t.Fatalf("garbage token: unexpected message %v", msg)
	}

	rec = env.do(t, http.MethodGet, "/profile", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "No token provided, authorization denied" {
		t.Fatalf("missing header: unexpected message %v", msg)
	}
}

func TestProfileMalformedHeader(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/profile", "Token abc", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Invalid token format, authorization denied" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestProfileExpiredToken(t *testing.T) {
	env := newTestEnv()

	claims := jwt.RegisteredClaims{
		Subject:   "user-123",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/profile", "Bearer "+expired, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Token has expired" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestProfileDeletedUser(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"name":     "Ada",
		"email":    "ada@x.com",
		"password": "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	user, _ := body["user"].(map[string]any)
	id, _ := user["id"].(string)

	if err := env.repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	rec = env.do(t, http.MethodGet, "/profile", "Bearer "+token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Token is not valid, user not found" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestRegisterErrors(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"name":     "Ada",
		"email":    "ada@x.com",
		"password": "abc",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("short password: expected 400, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Password must be at least 6 characters long" {
		t.Fatalf("short password: unexpected message %v", msg)
	}

	rec = env.do(t, http.MethodPost, "/register", "", map[string]string{
		"name":     "Ada",
		"email":    "not-an-email",
		"password": "secret1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad email: expected 400, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Please provide a valid email address" {
		t.Fatalf("bad email: unexpected message %v", msg)
	}

	ada := map[string]string{"name": "Ada", "email": "ada@x.com", "password": "secret1"}
	if rec = env.do(t, http.MethodPost, "/register", "", ada); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/register", "", ada)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email: expected 400, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "User with this email already exists" {
		t.Fatalf("duplicate email: unexpected message %v", msg)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"name":     "Ada",
		"email":    "ada@x.com",
		"password": "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}

	wrongPassword := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email":    "ada@x.com",
		"password": "wrong-password",
	})
	unknownEmail := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "secret1",
	})

	if wrongPassword.Code != http.StatusBadRequest || unknownEmail.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for both failures, got %d and %d", wrongPassword.Code, unknownEmail.Code)
	}
	first := decodeBody(t, wrongPassword)["message"]
	second := decodeBody(t, unknownEmail)["message"]
	if first != "Invalid credentials" || first != second {
		t.Fatalf("both login failures must share the message, got %v and %v", first, second)
	}
}

func TestHealthzAndNotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["environment"] != "test" {
		t.Fatalf("healthz: unexpected environment %v", body["environment"])
	}

	rec = env.do(t, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Route not found" {
		t.Fatalf("unknown route: unexpected message %v", msg)
	}
}
