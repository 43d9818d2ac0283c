package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/mocks"
	"github.com/phrazzld/taskboard-api/internal/platform/memory"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc    service.AuthService
	users  *memory.UserStore
	tokens auth.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "service-test-secret-at-least-32-chars",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
		BcryptCost:                  bcrypt.MinCost,
	})
	require.NoError(t, err)

	users := memory.NewUserStore()
	svc, err := service.NewAuthService(
		users,
		store.NoTxRunner{},
		tokens,
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewMemoryLedger(),
		nil,
	)
	require.NoError(t, err)

	return &authFixture{svc: svc, users: users, tokens: tokens}
}

func TestNewAuthServiceValidation(t *testing.T) {
	t.Parallel()

	jwt := &mocks.MockJWTService{}
	hasher := &mocks.MockPasswordHasher{}
	users := memory.NewUserStore()

	_, err := service.NewAuthService(nil, nil, jwt, hasher, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewAuthService(users, nil, nil, hasher, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewAuthService(users, nil, jwt, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := service.NewAuthService(users, nil, jwt, hasher, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.RegisterUser(ctx, "Usuario@Exemplo.teste", "senha123", "Usuário Exemplo")
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.Equal(t, "usuario@exemplo.teste", registered.User.Email)
	assert.Equal(t, "Usuário Exemplo", registered.User.Name)
	assert.True(t, registered.ExpiresAt.After(time.Now()))

	claims, err := f.tokens.ValidateToken(ctx, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	stored, err := f.users.GetByEmail(ctx, "usuario@exemplo.teste")
	require.NoError(t, err)
	assert.NotEqual(t, "senha123", stored.HashedPassword)
	assert.Empty(t, stored.Password)

	loggedIn, err := f.svc.LoginUser(ctx, "usuario@exemplo.teste", "senha123")
	require.NoError(t, err)
	assert.NotEmpty(t, loggedIn.Token)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterUser(ctx, "ana@example.com", "senha123", "Ana")
	require.NoError(t, err)

	_, err = f.svc.RegisterUser(ctx, "ANA@example.com", "outrasenha", "Ana 2")
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	_, err := f.svc.RegisterUser(context.Background(), "not-an-email", "senha123", "Ana")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = f.svc.RegisterUser(context.Background(), "ana@example.com", "123", "Ana")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestRegisterLostRace(t *testing.T) {
	t.Parallel()

	users := &mocks.TestifyMockUserStore{}
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, store.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(store.ErrEmailExists)

	svc, err := service.NewAuthService(users, nil, &mocks.MockJWTService{}, &mocks.MockPasswordHasher{}, nil, nil)
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), "ana@example.com", "senha123", "Ana")
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
	users.AssertExpectations(t)
}

func TestRegisterHashesBeforeSaving(t *testing.T) {
	t.Parallel()

	users := &mocks.TestifyMockUserStore{}
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, store.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.HashedPassword == "hashed:senha123" && u.Password == ""
	})).Return(nil)

	hasher := &mocks.MockPasswordHasher{}
	jwt := &mocks.MockJWTService{Token: "access", RefreshToken: "refresh"}
	svc, err := service.NewAuthService(users, nil, jwt, hasher, nil, nil)
	require.NoError(t, err)

	result, err := svc.RegisterUser(context.Background(), "ana@example.com", "senha123", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "access", result.Token)
	assert.Equal(t, "refresh", result.RefreshToken)
	assert.Equal(t, 1, hasher.HashCallCount)
	users.AssertExpectations(t)
}

func TestRegisterTokenFailure(t *testing.T) {
	t.Parallel()

	jwt := &mocks.MockJWTService{Err: errors.New("signing failed")}
	svc, err := service.NewAuthService(memory.NewUserStore(), nil, jwt, &mocks.MockPasswordHasher{}, nil, nil)
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), "ana@example.com", "senha123", "Ana")
	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "register", svcErr.Operation)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterUser(ctx, "ana@example.com", "senha123", "Ana")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ana@example.com", "senha-errada"},
		{"unknown email", "ninguem@example.com", "senha123"},
		{"empty email", "", "senha123"},
		{"empty password", "ana@example.com", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.svc.LoginUser(ctx, tc.email, tc.password)
			assert.ErrorIs(t, err, service.ErrAuthentication)
			assert.Nil(t, result)
		})
	}
}

func TestLoginIsCaseInsensitiveOnEmail(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterUser(ctx, "ana@example.com", "senha123", "Ana")
	require.NoError(t, err)

	_, err = f.svc.LoginUser(ctx, "  ANA@Example.com ", "senha123")
	assert.NoError(t, err)
}

func TestLoginStoreFailure(t *testing.T) {
	t.Parallel()

	users := &mocks.TestifyMockUserStore{}
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, errors.New("connection reset"))

	svc, err := service.NewAuthService(users, nil, &mocks.MockJWTService{}, &mocks.MockPasswordHasher{}, nil, nil)
	require.NoError(t, err)

	_, err = svc.LoginUser(context.Background(), "ana@example.com", "senha123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrAuthentication)
	assert.ErrorContains(t, err, "connection reset")
}

func TestGetUserByID(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.RegisterUser(ctx, "ana@example.com", "senha123", "Ana")
	require.NoError(t, err)

	profile, err := f.svc.GetUserByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)

	_, err = f.svc.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestGetUserFromTokenPayload(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.RegisterUser(ctx, "ana@example.com", "senha123", "Ana")
	require.NoError(t, err)
	claims, err := f.tokens.ValidateToken(ctx, registered.Token)
	require.NoError(t, err)

	profile, err := f.svc.GetUserFromTokenPayload(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, profile.ID)
	assert.Equal(t, "Ana", profile.Name)

	_, err = f.svc.GetUserFromTokenPayload(ctx, nil)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.RegisterUser(ctx, "ana@example.com", "senha123", "Ana")
	require.NoError(t, err)

	pair, err := f.svc.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, registered.RefreshToken, pair.RefreshToken)

	claims, err := f.tokens.ValidateToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	t.Run("reuse is rejected", func(t *testing.T) {
		_, err := f.svc.RefreshToken(ctx, registered.RefreshToken)
		assert.ErrorIs(t, err, auth.ErrRefreshTokenReused)
	})

	t.Run("new refresh token works once", func(t *testing.T) {
		_, err := f.svc.RefreshToken(ctx, pair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		_, err := f.svc.RefreshToken(ctx, registered.Token)
		assert.ErrorIs(t, err, auth.ErrWrongTokenType)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := f.svc.RefreshToken(ctx, "garbage")
		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})
}

func TestRefreshTokenReplayWithinClockSkew(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advanceTo := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC).Add(d)
	}

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "service-test-secret-at-least-32-chars",
		TokenLifetimeMinutes:        5,
		RefreshTokenLifetimeMinutes: 10,
		BcryptCost:                  bcrypt.MinCost,
	}, auth.WithTimeFunc(clock))
	require.NoError(t, err)

	svc, err := service.NewAuthService(
		memory.NewUserStore(),
		store.NoTxRunner{},
		tokens,
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewMemoryLedgerWithClock(clock),
		nil,
	)
	require.NoError(t, err)
	ctx := context.Background()

	registered, err := svc.RegisterUser(ctx, "ana@example.com", "senha123", "Ana")
	require.NoError(t, err)

	advanceTo(9 * time.Minute)
	_, err = svc.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)

	// Past exp but inside the validation leeway.
	advanceTo(11 * time.Minute)
	_, err = svc.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenReused)

	advanceTo(10*time.Minute + auth.DefaultClockSkew + time.Second)
	_, err = svc.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrExpiredRefreshToken)
}

func TestRefreshTokenForMissingUser(t *testing.T) {
	t.Parallel()

	jwt := &mocks.MockJWTService{
		Claims: &auth.Claims{
			UserID:    uuid.New(),
			TokenType: auth.TokenTypeRefresh,
			ID:        uuid.NewString(),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	ledger := &mocks.MockRefreshTokenLedger{}
	svc, err := service.NewAuthService(memory.NewUserStore(), nil, jwt, &mocks.MockPasswordHasher{}, ledger, nil)
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), "refresh")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	assert.Empty(t, ledger.Consumed, "ledger must not record tokens of missing users")
}

func TestRefreshTokenLedgerFailure(t *testing.T) {
	t.Parallel()

	users := memory.NewUserStore()
	user, err := domain.NewUser("ana@example.com", "senha123", "Ana")
	require.NoError(t, err)
	user.HashedPassword = "hashed:senha123"
	user.Password = ""
	require.NoError(t, users.Create(context.Background(), user))

	jwt := &mocks.MockJWTService{
		Claims: &auth.Claims{UserID: user.ID, ID: "jti", ExpiresAt: time.Now().Add(time.Hour)},
	}
	ledger := &mocks.MockRefreshTokenLedger{
		ConsumeFn: func(context.Context, string, time.Time) (bool, error) {
			return false, errors.New("redis down")
		},
	}
	svc, err := service.NewAuthService(users, nil, jwt, &mocks.MockPasswordHasher{}, ledger, nil)
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), "refresh")
	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "refresh", svcErr.Operation)
}
