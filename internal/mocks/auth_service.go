package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	RegisterUserFn            func(ctx context.Context, email, password, name string) (*service.AuthResult, error)
	LoginUserFn               func(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetUserByIDFn             func(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	GetUserFromTokenPayloadFn func(ctx context.Context, claims *auth.Claims) (*domain.UserProfile, error)
	RefreshTokenFn            func(ctx context.Context, refreshToken string) (*service.TokenPair, error)

	// Default return values
	Result       *service.AuthResult
	Profile      *domain.UserProfile
	Pair         *service.TokenPair
	DefaultError error
}

var _ service.AuthService = (*MockAuthService)(nil)

// RegisterUser implements service.AuthService.
func (m *MockAuthService) RegisterUser(
	ctx context.Context,
	email, password, name string,
) (*service.AuthResult, error) {
	if m.RegisterUserFn != nil {
		return m.RegisterUserFn(ctx, email, password, name)
	}
	return m.Result, m.DefaultError
}

// LoginUser implements service.AuthService.
func (m *MockAuthService) LoginUser(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginUserFn != nil {
		return m.LoginUserFn(ctx, email, password)
	}
	return m.Result, m.DefaultError
}

// GetUserByID implements service.AuthService.
func (m *MockAuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	if m.GetUserByIDFn != nil {
		return m.GetUserByIDFn(ctx, userID)
	}
	return m.Profile, m.DefaultError
}

// GetUserFromTokenPayload implements service.AuthService.
func (m *MockAuthService) GetUserFromTokenPayload(
	ctx context.Context,
	claims *auth.Claims,
) (*domain.UserProfile, error) {
	if m.GetUserFromTokenPayloadFn != nil {
		return m.GetUserFromTokenPayloadFn(ctx, claims)
	}
	return m.Profile, m.DefaultError
}

// RefreshToken implements service.AuthService.
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	if m.RefreshTokenFn != nil {
		return m.RefreshTokenFn(ctx, refreshToken)
	}
	return m.Pair, m.DefaultError
}
