package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/recruithub/apiserver/config"
	"github.com/recruithub/apiserver/internal/auth"
	"github.com/recruithub/apiserver/internal/db"
	"github.com/recruithub/apiserver/internal/handlers"
	"github.com/recruithub/apiserver/internal/services"
	"github.com/recruithub/apiserver/internal/store"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	log        zerolog.Logger
}

// New wires the user directory, token issuer, authentication service,
// and routes. A missing JWT secret is a startup failure, never a
// per-request condition.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log := newLogger(cfg)

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	var (
		users  services.UserRepository
		dbConn *sql.DB
	)
	switch cfg.Store {
	case config.StorePostgres:
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		dbConn = conn
		users = store.NewUserRepository(conn)
	case config.StoreMemory:
		users = store.NewMemoryRepository()
		log.Warn().Msg("using in-memory user directory; accounts do not survive restarts")
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store)
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(users, issuer, log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(log),
		middleware.Timeout(60*time.Second),
	)
	router.NotFound(handlers.NotFound)
	router.Get("/healthz", handlers.Healthz(cfg.Environment))
	handlers.AuthRouter(router, authService, issuer, log, cfg.IsDevelopment())

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		log:        log,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}

func newLogger(cfg config.Config) zerolog.Logger {
	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
