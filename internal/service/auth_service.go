package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAccountDisabled    = pkgerrors.Kind(pkgerrors.ErrForbidden, "account is disabled")
)

// TokenBlacklist revokes access tokens before they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService login, tokens and self-service account actions.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Me(ctx context.Context, actor authz.Actor) (*dto.UserResponse, error)
	RequestRole(ctx context.Context, actor authz.Actor, req *dto.RequestRoleRequest) (*dto.UserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	users     *userService
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil when redis is
// not configured; logout then only discards the client's tokens.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	audit AuditService,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		users:     &userService{cfg: cfg, repo: repo, audit: audit, logger: logger},
		logger:    logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. user
	user, err := s.repo.User.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("load user failed", zap.Error(err))
		return nil, err
	}

	// 2. password (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// 3. token pair
	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	// 4. last login, best effort
	at := time.Now().UTC()
	if err := s.repo.User.TouchLogin(ctx, user.UserID, at); err != nil {
		s.logger.Warn("update last login failed", zap.String("user_id", user.UserID), zap.Error(err))
	} else {
		resp.User.LastLoginAt = formatTime(at)
	}
	return resp, nil
}

func (s *authService) issue(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, user.RoleStatus)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, user.RoleStatus)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         *toUserResponse(user),
	}, nil
}

// ────────────────────── Refresh / Logout ──────────────────────

// Refresh re-reads the user so role and approval changes apply to the new pair.
func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("load user failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.issue(user)
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.RemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Register / Me / RequestRole ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	requested, err := requestableRole(req.RequestedRole)
	if err != nil {
		return nil, err
	}

	user, err := s.users.newUser(ctx, req.Username, req.Password, authz.RolePublic, authz.StatusPending)
	if err != nil {
		return nil, err
	}
	user.RequestedRole = string(requested)
	user.Email = req.Email
	user.FullName = req.FullName
	user.Organization = req.Organization
	user.Phone = req.Phone

	if err := s.users.insert(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *authService) Me(ctx context.Context, actor authz.Actor) (*dto.UserResponse, error) {
	user, err := s.users.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *authService) RequestRole(ctx context.Context, actor authz.Actor, req *dto.RequestRoleRequest) (*dto.UserResponse, error) {
	requested, err := requestableRole(req.RequestedRole)
	if err != nil {
		return nil, err
	}
	user, err := s.users.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user.Role == string(requested) && user.RoleStatus == string(authz.StatusApproved) {
		return nil, pkgerrors.Kind(pkgerrors.ErrInvalidState, "you already hold role "+string(requested))
	}

	user.RequestedRole = string(requested)
	user.RoleStatus = string(authz.StatusPending)
	if err := s.users.update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func requestableRole(r string) (authz.Role, error) {
	role := authz.Role(r)
	if !role.IsValid() || role == authz.RolePublic {
		verr := pkgerrors.NewValidationError()
		verr.Add("requested_role", "unknown staff role")
		return "", verr
	}
	return role, nil
}
