package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/repository"
	"natesa/backend/pkg/jwt"
)

// TokenStore revoked-token list. A nil store disables revocation.
type TokenStore interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, access *jwt.Claims, req *dto.LogoutRequest) error
	Me(ctx context.Context, caller policy.Identity) (*dto.UserResponse, error)
}

type authService struct {
	repo       *repository.Repository
	jwtMgr     *jwt.Manager
	tokens     TokenStore
	bcryptCost int
	logger     *zap.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates an AuthService
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	bcryptCost int,
	logger *zap.Logger,
) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		repo:       repo,
		jwtMgr:     jwtMgr,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storeFailure(s.logger, "load user for login", err)
		}
		// unknown email still pays for a comparison
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != model.StatusActive {
		return nil, ErrAccountInactive
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return s.issue(ctx, user.ID, req.RememberMe)
}

func (s *authService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("natesa-login-placeholder"), s.bcryptCost)
	})
	return s.dummyHash
}

// issue signs a fresh token pair from the stored user so role and branch
// changes take effect on the next login or refresh.
func (s *authService) issue(ctx context.Context, userID uint, rememberMe bool) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.logger, "load user", notFound(err, ErrInvalidCredentials))
	}

	access, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Role, user.BranchID)
	if err != nil {
		return nil, storeFailure(s.logger, "sign access token", err)
	}
	refresh, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Role, user.BranchID, rememberMe)
	if err != nil {
		return nil, storeFailure(s.logger, "sign refresh token", err)
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	if revoked, err := s.revoked(ctx, claims.ID); err != nil {
		return nil, err
	} else if revoked {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, storeFailure(s.logger, "load user for refresh", notFound(err, ErrInvalidToken))
	}
	if user.Status != model.StatusActive {
		return nil, ErrAccountInactive
	}

	// the presented refresh token is single use
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.issue(ctx, user.ID, claims.RememberMe)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, access *jwt.Claims, req *dto.LogoutRequest) error {
	if access != nil {
		if err := s.revoke(ctx, access); err != nil {
			return err
		}
	}
	if req == nil || req.RefreshToken == "" {
		return nil
	}
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		// already expired or garbage; nothing to revoke
		return nil
	}
	if access != nil && claims.UserID != access.UserID {
		return ErrInvalidToken
	}
	return s.revoke(ctx, claims)
}

func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) error {
	if s.tokens == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.tokens.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		return storeFailure(s.logger, "blacklist token", err, zap.Uint("user_id", claims.UserID))
	}
	return nil
}

func (s *authService) revoked(ctx context.Context, jti string) (bool, error) {
	if s.tokens == nil || jti == "" {
		return false, nil
	}
	ok, err := s.tokens.IsBlacklisted(ctx, jti)
	if err != nil {
		return false, storeFailure(s.logger, "check token blacklist", err)
	}
	return ok, nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, caller policy.Identity) (*dto.UserResponse, error) {
	if caller.IsAnonymous() {
		return nil, ErrInvalidToken
	}
	user, err := s.repo.User.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, storeFailure(s.logger, "load current user", notFound(err, ErrUserNotFound))
	}
	resp := toUserResponse(user)
	return &resp, nil
}
