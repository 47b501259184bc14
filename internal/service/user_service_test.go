package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

func (f *fixture) register(t *testing.T, username string, role authz.Role) *dto.UserResponse {
	t.Helper()
	u, err := f.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		Username:      username,
		Password:      "correct-horse-battery",
		Email:         username + "@example.com",
		FullName:      "Test " + username,
		RequestedRole: string(role),
	})
	require.NoError(t, err)
	return u
}

func TestUserService_CreateRespectsRank(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.User.Create(ctx, director, &dto.CreateUserRequest{
		Username: "Marshal1", Password: "long-enough-pw", FullName: "Chief", Role: string(authz.RoleChiefMarshal),
	})
	require.NoError(t, err)
	assert.Equal(t, "marshal1", u.Username)
	assert.Equal(t, string(authz.StatusApproved), u.RoleStatus)
	assert.True(t, u.IsActive)

	_, err = f.svc.User.Create(ctx, director, &dto.CreateUserRequest{
		Username: "root2", Password: "long-enough-pw", FullName: "Root", Role: string(authz.RoleAdmin),
	})
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)

	_, err = f.svc.User.Create(ctx, director, &dto.CreateUserRequest{
		Username: "MARSHAL1", Password: "long-enough-pw", FullName: "Dup", Role: string(authz.RoleViewer),
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = f.svc.User.Create(ctx, webmaster, &dto.CreateUserRequest{
		Username: "someone", Password: "long-enough-pw", FullName: "X", Role: string(authz.RoleViewer),
	})
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)

	_, err = f.svc.User.Create(ctx, admin, &dto.CreateUserRequest{
		Username: "someone", Password: "long-enough-pw", FullName: "X", Role: "caddie",
	})
	assert.ErrorIs(t, err, pkgerrors.ErrValidation)
}

func TestUserService_RoleRequestLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t, "wanjiru", authz.RoleMediaOfficer)
	assert.Equal(t, string(authz.RolePublic), u.Role)
	assert.Equal(t, string(authz.StatusPending), u.RoleStatus)

	pending, _, err := f.svc.User.List(ctx, admin, &dto.UserListRequest{RoleStatus: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// management only, and only above the requested role
	_, err = f.svc.User.ApproveRole(ctx, areaSup, u.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)

	approved, err := f.svc.User.ApproveRole(ctx, director, u.ID)
	require.NoError(t, err)
	assert.Equal(t, string(authz.RoleMediaOfficer), approved.Role)
	assert.Equal(t, string(authz.StatusApproved), approved.RoleStatus)
	assert.Empty(t, approved.RequestedRole)

	_, err = f.svc.User.ApproveRole(ctx, director, u.ID)
	assert.ErrorIs(t, err, ErrNoPendingRequest)

	assert.Equal(t, []string{"approve_role"}, f.auditActions(t, u.ID))
}

func TestUserService_RejectRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "kamau", authz.RoleHROfficer)

	rejected, err := f.svc.User.RejectRole(ctx, admin, u.ID, &dto.RejectRoleRequest{Reason: "not on staff list"})
	require.NoError(t, err)
	assert.Equal(t, string(authz.StatusRejected), rejected.RoleStatus)
	assert.Equal(t, string(authz.RolePublic), rejected.Role)

	entries, err := f.svc.Audit.Query(ctx, admin, &dto.AuditQueryRequest{EntityID: u.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Details, "not on staff list")
}

func TestUserService_Deactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.User.Create(ctx, admin, &dto.CreateUserRequest{
		Username: "ops", Password: "long-enough-pw", FullName: "Ops", Role: string(authz.RoleOperationsManager),
	})
	require.NoError(t, err)

	_, err = f.svc.User.Deactivate(ctx, authz.Actor{ID: "other-ops", Role: authz.RoleOperationsManager, Status: authz.StatusApproved}, u.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)

	_, err = f.svc.User.Deactivate(ctx, authz.Actor{ID: u.ID, Role: authz.RoleOperationsManager, Status: authz.StatusApproved}, u.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidState)

	off, err := f.svc.User.Deactivate(ctx, admin, u.ID)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	_, err = f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "ops", Password: "long-enough-pw"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestUserService_BootstrapIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, created, err := f.svc.User.Bootstrap(ctx, "Webmaster", "first-password", "Site admin", authz.RoleWebmaster)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, string(authz.RoleWebmaster), u.Role)

	again, created, err := f.svc.User.Bootstrap(ctx, "webmaster", "other-password", "Ignored", authz.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, string(authz.RoleWebmaster), again.Role)

	_, _, err = f.svc.User.Bootstrap(ctx, "x", "y", "z", authz.RolePublic)
	assert.ErrorIs(t, err, pkgerrors.ErrValidation)
}
