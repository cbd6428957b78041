// Package auth issues and verifies the JWT bearer tokens that carry the
// authenticated identity (user id, fiscal code, role) through every request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned for missing, malformed or expired tokens
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller threaded explicitly through services
type Identity struct {
	UserID     int64
	FiscalCode string
	Role       string
}

// Claims are the JWT claims carried by access tokens
type Claims struct {
	FiscalCode string `json:"fiscal_code"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies access tokens
type Manager struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewManager creates a token manager
func NewManager(secret string, tokenTTL time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// GenerateToken signs a token for the given identity
func (m *Manager) GenerateToken(id Identity, now time.Time) (string, error) {
	claims := Claims{
		FiscalCode: id.FiscalCode,
		Role:       id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses a token and returns the identity it carries
func (m *Manager) VerifyToken(tokenString string) (*Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:     userID,
		FiscalCode: claims.FiscalCode,
		Role:       claims.Role,
	}, nil
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
