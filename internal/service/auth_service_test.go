package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

type mockUserByEmail struct {
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockUserByEmail) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!pass")
	require.NoError(t, err)

	users := &mockUserByEmail{
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			if email != "mario@example.com" {
				return nil, nil
			}
			return &models.User{
				ID:           7,
				FiscalCode:   "RSSMRA80A01H501U",
				Email:        email,
				PasswordHash: hash,
				Role:         models.RoleCustomer,
			}, nil
		},
	}

	tokens := auth.NewManager("test-secret", time.Hour)
	svc := NewAuthService(users, tokens, zap.NewNop())

	token, user, err := svc.Login(context.Background(), "mario@example.com", "s3cret!pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(7), user.ID)

	ident, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), ident.UserID)
	assert.Equal(t, models.RoleCustomer, ident.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!pass")
	require.NoError(t, err)

	users := &mockUserByEmail{
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 7, Email: email, PasswordHash: hash}, nil
		},
	}

	svc := NewAuthService(users, auth.NewManager("test-secret", time.Hour), zap.NewNop())

	_, _, err = svc.Login(context.Background(), "mario@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(&mockUserByEmail{}, auth.NewManager("test-secret", time.Hour), zap.NewNop())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
