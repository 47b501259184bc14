package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/api/middleware"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/jwt"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/response"
)

// MustGetActor builds the acting identity that JWTAuth put into the context.
// On ok=false a 401 has already been written and the caller should return.
func MustGetActor(c *gin.Context) (authz.Actor, bool) {
	id := c.GetString(middleware.ContextUserID)
	role := c.GetString(middleware.ContextRole)
	if id == "" || role == "" {
		response.Unauthorized(c, response.CodeUnauthenticated, "not authenticated")
		return authz.Actor{}, false
	}
	return authz.Actor{
		ID:     id,
		Role:   authz.Role(role),
		Status: authz.ApprovalStatus(c.GetString(middleware.ContextRoleStatus)),
	}, true
}

// MustGetClaims returns the parsed access token.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ContextClaims)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthenticated, "not authenticated")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, response.CodeUnauthenticated, "not authenticated")
		return nil, false
	}
	return claims, true
}
