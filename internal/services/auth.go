package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/recruithub/apiserver/internal/auth"
	"github.com/recruithub/apiserver/internal/store"
	"github.com/recruithub/apiserver/types"
	"github.com/rs/zerolog"
)

var (
	// ErrDuplicateEmail is returned when registration targets an email
	// that already has an account.
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrInvalidCredentials is returned for both unknown-email and
	// wrong-password logins so responses cannot be used to enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// emailPattern is deliberately loose: no whitespace, exactly one @,
// at least one dot in the domain. Anything stricter rejects addresses
// that mail servers accept.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError carries a field-level message that is safe to return
// to the client verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserRepository defines the directory operations the service depends
// on. Implementations own durable state; the service owns identifier
// generation.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,basic_email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the payload for verifying credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService orchestrates registration, login, and subject
// resolution against the user directory.
type AuthService struct {
	users    UserRepository
	tokens   *auth.TokenIssuer
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthService(users UserRepository, tokens *auth.TokenIssuer, log zerolog.Logger) *AuthService {
	validate := validator.New()
	// Always succeeds: basic_email is not a registered tag yet and the
	// validation func is non-nil.
	_ = validate.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return &AuthService{
		users:    users,
		tokens:   tokens,
		validate: validate,
		log:      log,
	}
}

// Register creates a new account and issues a token for it. The
// returned user is sanitized. Uniqueness is checked before insert;
// the gap between check and insert is closed only by the directory's
// own constraints.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (types.User, string, error) {
	if err := s.validate.Struct(input); err != nil {
		return types.User{}, "", registerValidationError(err)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return types.User{}, "", ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		s.log.Error().Err(err).Msg("registration: directory lookup failed")
		return types.User{}, "", fmt.Errorf("look up user: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("registration: hashing failed")
		return types.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, types.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("registration: directory insert failed")
		return types.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("registration: token issue failed")
		return types.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user.Sanitized(), token, nil
}

// Login verifies credentials and issues a token. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (types.User, string, error) {
	if err := s.validate.Struct(input); err != nil {
		return types.User{}, "", &ValidationError{Message: "Please provide email and password"}
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, "", ErrInvalidCredentials
		}
		s.log.Error().Err(err).Msg("login: directory lookup failed")
		return types.User{}, "", fmt.Errorf("look up user: %w", err)
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return types.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("login: token issue failed")
		return types.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return user.Sanitized(), token, nil
}

// ResolveSubject maps a verified token subject to its sanitized user
// record. Returns store.ErrNotFound when the account no longer exists.
func (s *AuthService) ResolveSubject(ctx context.Context, id string) (types.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}
	return user.Sanitized(), nil
}

// registerValidationError maps validator output to the platform's
// registration messages. Missing fields win over format problems, so
// a request missing its name reads as "provide name, email, and
// password" even if the email is also malformed.
func registerValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return &ValidationError{Message: "Please provide name, email, and password"}
	}

	for _, fe := range fieldErrors {
		if fe.Tag() == "required" {
			return &ValidationError{Message: "Please provide name, email, and password"}
		}
	}
	switch fieldErrors[0].Tag() {
	case "basic_email":
		return &ValidationError{Message: "Please provide a valid email address"}
	case "min":
		return &ValidationError{Message: "Password must be at least 6 characters long"}
	default:
		return &ValidationError{Message: "Please provide name, email, and password"}
	}
}
