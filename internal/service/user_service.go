package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// ── user errors ──

var (
	ErrUserNotFound     = pkgerrors.Kind(pkgerrors.ErrNotFound, "user not found")
	ErrUsernameTaken    = pkgerrors.Kind(pkgerrors.ErrConflict, "username is already taken")
	ErrNoPendingRequest = pkgerrors.Kind(pkgerrors.ErrInvalidState, "user has no pending role request")
)

// UserService staff accounts and role requests.
type UserService interface {
	Create(ctx context.Context, actor authz.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context, actor authz.Actor, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	ApproveRole(ctx context.Context, actor authz.Actor, id string) (*dto.UserResponse, error)
	RejectRole(ctx context.Context, actor authz.Actor, id string, req *dto.RejectRoleRequest) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, actor authz.Actor, id string) (*dto.UserResponse, error)
	// Bootstrap creates an approved account outside the policy, for the operator
	// CLI. An existing username is returned unchanged with created=false.
	Bootstrap(ctx context.Context, username, password, fullName string, role authz.Role) (user *dto.UserResponse, created bool, err error)
}

type userService struct {
	cfg    *config.Config
	repo   *repository.Repository
	policy *authz.Policy
	audit  AuditService
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(cfg *config.Config, repo *repository.Repository, policy *authz.Policy, audit AuditService, logger *zap.Logger) UserService {
	return &userService{cfg: cfg, repo: repo, policy: policy, audit: audit, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, actor authz.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := s.policy.Authorize(actor, authz.ActionManageUsers, ""); err != nil {
		return nil, err
	}
	role := authz.Role(req.Role)
	if !role.IsValid() || role == authz.RolePublic {
		verr := pkgerrors.NewValidationError()
		verr.Add("role", "unknown staff role")
		return nil, verr
	}
	if role.Outranks(actor.Role) {
		return nil, pkgerrors.Kind(pkgerrors.ErrForbidden, fmt.Sprintf("role %s may not grant %s", actor.Role, role))
	}

	user, err := s.newUser(ctx, req.Username, req.Password, role, authz.StatusApproved)
	if err != nil {
		return nil, err
	}
	user.Email = req.Email
	user.FullName = req.FullName
	user.Organization = req.Organization
	user.Phone = req.Phone

	if err := s.insert(ctx, user); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, model.AuditCreateUser, model.EntityUser, user.UserID, "role="+user.Role)
	return toUserResponse(user), nil
}

func (s *userService) newUser(ctx context.Context, username, password string, role authz.Role, status authz.ApprovalStatus) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if _, err := s.repo.User.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !isNotFound(err) {
		s.logger.Error("load user failed", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         string(role),
		RoleStatus:   string(status),
		IsActive:     true,
	}
	user.Version = 1
	return user, nil
}

func (s *userService) insert(ctx context.Context, user *model.User) error {
	if err := s.repo.User.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return ErrUsernameTaken
		}
		s.logger.Error("create user failed", zap.String("username", user.Username), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, actor authz.Actor, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if err := s.policy.Authorize(actor, authz.ActionManageUsers, ""); err != nil {
		return nil, 0, err
	}

	users, total, err := s.repo.User.List(ctx,
		repository.UserFilter{Role: req.Role, RoleStatus: req.RoleStatus},
		req.GetOffset(), pageSize(&req.PaginationRequest, s.cfg.Accreditation.MaxPageSize))
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Role requests ──────────────────────

// pendingRequest loads id and checks that actor may decide its role request.
func (s *userService) pendingRequest(ctx context.Context, actor authz.Actor, id string) (*model.User, error) {
	if err := s.policy.Authorize(actor, authz.ActionManageUsers, ""); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.RoleStatus != string(authz.StatusPending) || user.RequestedRole == "" {
		return nil, ErrNoPendingRequest
	}
	requested := authz.Role(user.RequestedRole)
	if !actor.Role.IsManagement() || !actor.Role.Outranks(requested) {
		return nil, pkgerrors.Kind(pkgerrors.ErrForbidden,
			fmt.Sprintf("role %s may not decide requests for %s", actor.Role, requested))
	}
	return user, nil
}

func (s *userService) ApproveRole(ctx context.Context, actor authz.Actor, id string) (*dto.UserResponse, error) {
	user, err := s.pendingRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	granted := user.RequestedRole
	user.Role = granted
	user.RoleStatus = string(authz.StatusApproved)
	user.RequestedRole = ""
	if err := s.update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, model.AuditApproveRole, model.EntityUser, id, "role="+granted)
	return toUserResponse(user), nil
}

func (s *userService) RejectRole(ctx context.Context, actor authz.Actor, id string, req *dto.RejectRoleRequest) (*dto.UserResponse, error) {
	user, err := s.pendingRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	requested := user.RequestedRole
	user.RoleStatus = string(authz.StatusRejected)
	user.RequestedRole = ""
	if err := s.update(ctx, user); err != nil {
		return nil, err
	}

	details := "role=" + requested
	if req != nil && req.Reason != "" {
		details += " reason=" + req.Reason
	}
	s.audit.Record(ctx, actor, model.AuditRejectRole, model.EntityUser, id, details)
	return toUserResponse(user), nil
}

func (s *userService) Deactivate(ctx context.Context, actor authz.Actor, id string) (*dto.UserResponse, error) {
	if err := s.policy.Authorize(actor, authz.ActionManageUsers, ""); err != nil {
		return nil, err
	}
	if id == actor.ID {
		return nil, pkgerrors.Kind(pkgerrors.ErrInvalidState, "you cannot deactivate your own account")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Outranks(authz.Role(user.Role)) {
		return nil, pkgerrors.Kind(pkgerrors.ErrForbidden,
			fmt.Sprintf("role %s may not deactivate a %s", actor.Role, user.Role))
	}
	if !user.IsActive {
		return toUserResponse(user), nil
	}

	user.IsActive = false
	if err := s.update(ctx, user); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, model.AuditDeactivateUser, model.EntityUser, id, "")
	return toUserResponse(user), nil
}

// ────────────────────── Bootstrap ──────────────────────

func (s *userService) Bootstrap(ctx context.Context, username, password, fullName string, role authz.Role) (*dto.UserResponse, bool, error) {
	if !role.IsValid() || role == authz.RolePublic {
		return nil, false, pkgerrors.Kind(pkgerrors.ErrValidation, "unknown staff role "+string(role))
	}
	existing, err := s.repo.User.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err == nil {
		return toUserResponse(existing), false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	user, err := s.newUser(ctx, username, password, role, authz.StatusApproved)
	if err != nil {
		return nil, false, err
	}
	user.FullName = fullName
	if err := s.insert(ctx, user); err != nil {
		return nil, false, err
	}
	s.audit.Record(ctx, systemActor, model.AuditCreateUser, model.EntityUser, user.UserID, "role="+user.Role)
	return toUserResponse(user), true, nil
}

// ── internal helpers ──

func (s *userService) load(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) update(ctx context.Context, user *model.User) error {
	if err := s.repo.User.Update(ctx, user); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update user failed", zap.String("id", user.UserID), zap.Error(err))
		}
		return err
	}
	return nil
}

func toUserResponse(u *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:            u.UserID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          u.Role,
		RoleStatus:    u.RoleStatus,
		RequestedRole: u.RequestedRole,
		Organization:  u.Organization,
		Phone:         u.Phone,
		IsActive:      u.IsActive,
		CreatedAt:     formatTime(u.CreatedAt),
	}
	if u.LastLoginAt != nil {
		resp.LastLoginAt = formatTime(*u.LastLoginAt)
	}
	return resp
}
