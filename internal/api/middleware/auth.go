package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/jwt"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/response"
)

// Context keys set by JWTAuth.
const (
	ContextUserID     = "user_id"
	ContextRole       = "role"
	ContextRoleStatus = "role_status"
	ContextClaims     = "claims"
)

// TokenChecker reports whether a token id has been revoked.
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth authenticates Authorization: Bearer <access token> and injects the
// actor identity into the context. A nil checker skips the revocation lookup.
func JWTAuth(jwtMgr *jwt.Manager, checker TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthenticated, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, response.CodeUnauthenticated, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthenticated, "token is invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, response.CodeUnauthenticated, "wrong token type")
			c.Abort()
			return
		}

		if checker != nil && claims.ID != "" {
			revoked, err := checker.IsBlacklisted(c.Request.Context(), claims.ID)
			// a lookup failure lets the token through, the same as RateLimit
			if err == nil && revoked {
				response.Unauthorized(c, response.CodeUnauthenticated, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextRoleStatus, claims.RoleStatus)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}
