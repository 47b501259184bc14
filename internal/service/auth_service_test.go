package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/jwt"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

func TestAuthService_LoginIssuesTokenPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.User.Bootstrap(ctx, "director", "s3cret-passw0rd", "Director", authz.RoleTournamentDirector)
	require.NoError(t, err)

	resp, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: " Director ", Password: "s3cret-passw0rd"})
	require.NoError(t, err)
	assert.Equal(t, 900, resp.ExpiresIn)
	assert.NotEmpty(t, resp.User.LastLoginAt)

	claims, err := f.jwtMgr.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, string(authz.RoleTournamentDirector), claims.Role)
	assert.Equal(t, string(authz.StatusApproved), claims.RoleStatus)
	assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)

	_, err = f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "director", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshPicksUpApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "njeri", authz.RoleProAmCoordinator)

	login, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "njeri", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.Equal(t, string(authz.StatusPending), login.User.RoleStatus)

	_, err = f.svc.User.ApproveRole(ctx, admin, u.ID)
	require.NoError(t, err)

	refreshed, err := f.svc.Auth.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	claims, err := f.jwtMgr.ParseToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(authz.RoleProAmCoordinator), claims.Role)
	assert.Equal(t, string(authz.StatusApproved), claims.RoleStatus)

	// an access token is not a refresh token
	_, err = f.svc.Auth.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_LogoutBlacklistsJTI(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.User.Bootstrap(ctx, "viewer", "s3cret-passw0rd", "Viewer", authz.RoleViewer)
	require.NoError(t, err)
	login, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "viewer", Password: "s3cret-passw0rd"})
	require.NoError(t, err)

	claims, err := f.jwtMgr.ParseToken(login.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.svc.Auth.Logout(ctx, claims))

	ttl, ok := f.blacklist.jtis[claims.ID]
	require.True(t, ok)
	assert.Positive(t, ttl)
}

func TestAuthService_RegisterAndRequestRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Auth.Register(ctx, &dto.RegisterRequest{
		Username: "x1", Password: "long-enough-pw", Email: "x@example.com", FullName: "X", RequestedRole: "public",
	})
	assert.ErrorIs(t, err, pkgerrors.ErrValidation)

	u := f.register(t, "otieno", authz.RoleViewer)
	actor := authz.Actor{ID: u.ID, Role: authz.RolePublic, Status: authz.StatusPending}

	me, err := f.svc.Auth.Me(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, string(authz.RoleViewer), me.RequestedRole)

	changed, err := f.svc.Auth.RequestRole(ctx, actor, &dto.RequestRoleRequest{RequestedRole: string(authz.RoleHROfficer)})
	require.NoError(t, err)
	assert.Equal(t, string(authz.RoleHROfficer), changed.RequestedRole)
	assert.Equal(t, string(authz.StatusPending), changed.RoleStatus)

	_, err = f.svc.Auth.Register(ctx, &dto.RegisterRequest{
		Username: "OTIENO", Password: "long-enough-pw", Email: "o@example.com", FullName: "Dup", RequestedRole: "viewer",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}
