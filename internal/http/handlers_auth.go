package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"spendlog/internal/core"
	"spendlog/internal/services"
)

// handleRegister creates an account and returns a token for immediate use.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError("All fields are required").Write(w)
		return
	}

	token, user, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			BadRequestError("All fields are required").Write(w)
		case errors.Is(err, services.ErrPasswordTooShort):
			BadRequestError("Password must be at least 6 characters long").Write(w)
		case errors.Is(err, services.ErrInvalidEmail):
			BadRequestError("Please provide a valid email address").Write(w)
		case errors.Is(err, core.ErrEmailTaken):
			BadRequestError("User with this email already exists").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Registration error", "error", err)
			InternalServerError("Internal server error during registration").Write(w)
		}
		return
	}

	NewJSONResponse().Status(http.StatusCreated).Payload(map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	}).Write(w)
}

// handleLogin verifies credentials and issues a token. Unknown email and
// wrong password produce the same answer.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError("Email and password are required").Write(w)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		BadRequestError("Email and password are required").Write(w)
		return
	}

	token, user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			BadRequestError("Email and password are required").Write(w)
		case errors.Is(err, services.ErrInvalidCredentials):
			UnauthorizedError("Invalid email or password").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Login error", "error", err)
			InternalServerError("Internal server error during login").Write(w)
		}
		return
	}

	NewJSONResponse().Payload(map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	}).Write(w)
}

// handleProfile returns the public fields of a user looked up by query id.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("userId"))
	if raw == "" {
		BadRequestError("User ID is required").Write(w)
		return
	}

	// A non-numeric id cannot match any user
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		NotFoundError("User not found").Write(w)
		return
	}

	user, err := s.auth.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("User not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Profile fetch error", "error", err, "user_id", userID)
		InternalServerError("Internal server error while fetching profile").Write(w)
		return
	}

	NewJSONResponse().Payload(map[string]any{"user": user}).Write(w)
}
