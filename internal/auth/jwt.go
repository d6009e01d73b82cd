// Package auth issues and verifies the signed bearer tokens that
// authenticate API requests.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the registered claims plus the authenticated user's ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// JWTManager signs and verifies HS256 bearer tokens.
type JWTManager struct {
	secret   []byte
	validity time.Duration
}

// NewJWTManager creates a JWTManager signing with secret.
// Tokens expire after validity.
func NewJWTManager(secret []byte, validity time.Duration) *JWTManager {
	return &JWTManager{secret: secret, validity: validity}
}

// Generate returns a signed token binding the given user ID.
func (m *JWTManager) Generate(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})
	return token.SignedString(m.secret)
}

// Verify parses tokenString and returns the user ID it binds.
// It returns ErrInvalidToken when the signature is wrong, the token is
// expired, or the signing method is not HMAC.
func (m *JWTManager) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
