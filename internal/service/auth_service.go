package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

type userByEmailReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService authenticates users and issues access tokens
type AuthService struct {
	users  userByEmailReader
	tokens *auth.Manager
	logger *zap.Logger
	clock  func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users userByEmailReader, tokens *auth.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
		clock:  time.Now,
	}
}

// Login verifies credentials and returns a signed access token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("login lookup: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info("Failed login attempt", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(auth.Identity{
		UserID:     user.ID,
		FiscalCode: user.FiscalCode,
		Role:       user.Role,
	}, s.clock())
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}
