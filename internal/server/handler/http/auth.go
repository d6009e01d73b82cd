package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/camwarden/camwarden/internal/models"
	"github.com/camwarden/camwarden/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates an account and returns its public fields.
	Register(ctx context.Context, username, password string) (*models.PublicUser, error)
	// Login authenticates credentials and returns the public user plus a
	// signed bearer token.
	Login(ctx context.Context, username, password string) (*models.PublicUser, string, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log records server-side failures that must not reach the client.
	Log *zap.Logger
}

// credentialsRequest represents the JSON payload for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /auth/register.
// Field violations come back as 400 with the offending field named; a
// taken username is also a 400 with field "username".
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		var fieldErr *service.FieldError
		if errors.As(err, &fieldErr) {
			writeFieldError(w, http.StatusBadRequest, fieldErr)
			return
		}
		h.Log.Error("registration failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    user,
	})
}

// Login handles POST /auth/login.
// An unknown username and a wrong password produce byte-identical 401
// responses so callers cannot enumerate accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var fieldErr *service.FieldError
		if errors.As(err, &fieldErr) {
			writeFieldError(w, http.StatusBadRequest, fieldErr)
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.Log.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An error occurred during login")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}
