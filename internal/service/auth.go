package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/camwarden/camwarden/internal/models"
)

const bcryptCost = 10

const (
	minUsernameLen = 3
	maxUsernameLen = 100
	minPasswordLen = 6
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// FindByUsername fetches a user by username, returning sql.ErrNoRows
	// when no such user exists.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user models.User) error
}

// TokenIssuer signs a bearer token binding the given user ID.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewAuthService constructs an AuthService using the provided repository
// and token issuer.
func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account. It fails with a *FieldError when the
// username is taken, too short, too long, or contains characters other
// than letters, digits, and underscores, or when the password is shorter
// than six characters. The returned user never carries the password hash.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.PublicUser, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, &FieldError{Field: "username", Message: "Username already exists"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	if len(password) < minPasswordLen {
		return nil, &FieldError{Field: "password", Message: "Password must be at least 6 characters long"}
	}
	if len(username) < minUsernameLen {
		return nil, &FieldError{Field: "username", Message: "Username must be at least 3 characters long"}
	}
	if len(username) > maxUsernameLen {
		return nil, &FieldError{Field: "username", Message: "Username must be at most 100 characters long"}
	}
	if !usernamePattern.MatchString(username) {
		return nil, &FieldError{Field: "username", Message: "Username can only contain letters, numbers, and underscores"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	public := user.Public()
	return &public, nil
}

// Login authenticates the credentials and issues a bearer token.
// A missing field fails with a *FieldError. An unknown username and a
// wrong password both fail with ErrInvalidCredentials, so a caller cannot
// probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.PublicUser, string, error) {
	if username == "" {
		return nil, "", &FieldError{Field: "username", Message: "Username and password are required"}
	}
	if password == "" {
		return nil, "", &FieldError{Field: "password", Message: "Username and password are required"}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup username: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	public := user.Public()
	return &public, token, nil
}
