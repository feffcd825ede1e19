package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spendlog/internal/auth"
	"spendlog/internal/core"
	"spendlog/internal/storage"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrInvalidEmail       = errors.New("please provide a valid email address")
	// ErrInvalidCredentials is deliberately generic: login never reveals
	// whether the account exists or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles registration, login and profile lookups.
type AuthService struct {
	storage    *storage.SQLiteRepository
	tokens     *auth.TokenIssuer
	bcryptCost int
}

func NewAuthService(storage *storage.SQLiteRepository, tokens *auth.TokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{
		storage:    storage,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register validates the fields, stores a salted hash and issues a token.
// The raw password is never stored or logged.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, *core.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return "", nil, ErrMissingFields
	}
	if len(password) < 6 {
		return "", nil, ErrPasswordTooShort
	}
	if !strings.Contains(email, "@") {
		return "", nil, ErrInvalidEmail
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.storage.CreateUser(ctx, username, email, hash)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID)
	return token, user, nil
}

// Login verifies the credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *core.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return token, user, nil
}

// Profile returns the public fields of a user.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*core.User, error) {
	return s.storage.GetUserByID(ctx, userID)
}
