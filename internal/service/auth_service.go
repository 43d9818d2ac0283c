package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// AuthResult is returned by registration and login.
type AuthResult struct {
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
	User         *domain.UserProfile
}

// TokenPair is returned by a token refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService handles account creation, credential checks and token issuance.
type AuthService interface {
	// RegisterUser creates an account and signs the new user in.
	RegisterUser(ctx context.Context, email, password, name string) (*AuthResult, error)

	// LoginUser checks credentials and issues tokens.
	LoginUser(ctx context.Context, email, password string) (*AuthResult, error)

	// GetUserByID returns the public profile of a user.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)

	// GetUserFromTokenPayload returns the profile of the user a validated
	// access token was issued to.
	GetUserFromTokenPayload(ctx context.Context, claims *auth.Claims) (*domain.UserProfile, error)

	// RefreshToken exchanges a refresh token for a new token pair. Each refresh
	// token is accepted once.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authServiceImpl struct {
	users    store.UserStore
	runner   store.TxRunner
	tokens   auth.JWTService
	hasher   auth.PasswordHasher
	ledger   auth.RefreshTokenLedger
	timeFunc func() time.Time
	logger   *slog.Logger
}

// NewAuthService creates an AuthService. A nil runner means no transactions,
// a nil ledger means an in-process one.
func NewAuthService(
	users store.UserStore,
	runner store.TxRunner,
	tokens auth.JWTService,
	hasher auth.PasswordHasher,
	ledger auth.RefreshTokenLedger,
	logger *slog.Logger,
) (AuthService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if runner == nil {
		runner = store.NoTxRunner{}
	}
	if ledger == nil {
		ledger = auth.NewMemoryLedger()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		users:    users,
		runner:   runner,
		tokens:   tokens,
		hasher:   hasher,
		ledger:   ledger,
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

// RegisterUser implements AuthService.
func (s *authServiceImpl) RegisterUser(
	ctx context.Context,
	email, password, name string,
) (*AuthResult, error) {
	user, err := domain.NewUser(email, password, name)
	if err != nil {
		s.logger.Debug("rejected registration", "error", err)
		return nil, domain.NewValidationError("", err.Error(), err)
	}

	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		s.logger.Debug("registration with existing email", "email", user.Email)
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrUserNotFound) {
		s.logger.Error("failed to check existing email", "error", err)
		return nil, NewServiceError("register", "failed to check existing email", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, NewServiceError("register", "failed to hash password", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = s.runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("lost registration race for email", "email", user.Email)
			return nil, ErrDuplicateEmail
		}
		s.logger.Error("failed to save user", "error", err)
		return nil, NewServiceError("register", "failed to save user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.signIn(ctx, "register", user)
}

// LoginUser implements AuthService.
func (s *authServiceImpl) LoginUser(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrAuthentication
	}

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login for unknown email")
			return nil, ErrAuthentication
		}
		s.logger.Error("failed to look up user for login", "error", err)
		return nil, NewServiceError("login", "failed to look up user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Debug("login with wrong password", "user_id", user.ID)
			return nil, ErrAuthentication
		}
		s.logger.Error("failed to verify password", "error", err, "user_id", user.ID)
		return nil, NewServiceError("login", "failed to verify password", err)
	}

	return s.signIn(ctx, "login", user)
}

// GetUserByID implements AuthService.
func (s *authServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to retrieve user", "error", err, "user_id", userID)
		return nil, NewServiceError("get_user", "failed to retrieve user", err)
	}
	return user.Profile(), nil
}

// GetUserFromTokenPayload implements AuthService.
func (s *authServiceImpl) GetUserFromTokenPayload(
	ctx context.Context,
	claims *auth.Claims,
) (*domain.UserProfile, error) {
	if claims == nil || claims.UserID == uuid.Nil {
		return nil, auth.ErrInvalidToken
	}
	return s.GetUserByID(ctx, claims.UserID)
}

// RefreshToken implements AuthService.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		s.logger.Debug("rejected refresh token", "error", err)
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("refresh token for missing user", "user_id", claims.UserID)
			return nil, auth.ErrInvalidRefreshToken
		}
		return nil, NewServiceError("refresh", "failed to retrieve user", err)
	}

	// The jti must outlive every instant the token still validates, so
	// retention runs to the end of the clock-skew window.
	retainUntil := claims.AcceptUntil
	if retainUntil.Before(claims.ExpiresAt) {
		retainUntil = claims.ExpiresAt
	}
	fresh, err := s.ledger.Consume(ctx, claims.ID, retainUntil)
	if err != nil {
		s.logger.Error("failed to record refresh token use", "error", err)
		return nil, NewServiceError("refresh", "failed to record refresh token use", err)
	}
	if !fresh {
		s.logger.Warn("refresh token reused", "user_id", claims.UserID, "jti", claims.ID)
		return nil, auth.ErrRefreshTokenReused
	}

	access, refresh, expiresAt, err := s.issueTokens(ctx, claims.UserID)
	if err != nil {
		return nil, NewServiceError("refresh", "failed to issue tokens", err)
	}

	s.logger.Debug("refreshed tokens", "user_id", claims.UserID)
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *authServiceImpl) signIn(ctx context.Context, operation string, user *domain.User) (*AuthResult, error) {
	access, refresh, expiresAt, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, NewServiceError(operation, "failed to issue tokens", err)
	}
	return &AuthResult{
		Token:        access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         user.Profile(),
	}, nil
}

func (s *authServiceImpl) issueTokens(
	ctx context.Context,
	userID uuid.UUID,
) (access, refresh string, expiresAt time.Time, err error) {
	now := s.timeFunc()

	access, err = s.tokens.GenerateToken(ctx, userID)
	if err != nil {
		s.logger.Error("failed to generate access token", "error", err, "user_id", userID)
		return "", "", time.Time{}, err
	}
	refresh, err = s.tokens.GenerateRefreshToken(ctx, userID)
	if err != nil {
		s.logger.Error("failed to generate refresh token", "error", err, "user_id", userID)
		return "", "", time.Time{}, err
	}
	return access, refresh, now.Add(s.tokens.AccessTokenLifetime()).UTC(), nil
}
