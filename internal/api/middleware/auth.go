package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"natesa/backend/pkg/jwt"
	"natesa/backend/pkg/response"
)

const codeUnauthenticated = 10002

// Blacklist reports revoked token ids. A nil Blacklist skips the check.
type Blacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth requires a valid access token in Authorization: Bearer <token>
// and injects user_id, role, branch_id and claims into the context.
func JWTAuth(jwtMgr *jwt.Manager, bl Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Unauthorized(c, codeUnauthenticated, "missing authorization header")
			c.Abort()
			return
		}
		if !authenticate(c, jwtMgr, bl) {
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller when a token is present and lets
// anonymous requests through. A present but invalid token is still a 401.
func OptionalAuth(jwtMgr *jwt.Manager, bl Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" && !authenticate(c, jwtMgr, bl) {
			return
		}
		c.Next()
	}
}

// authenticate parses the bearer token; on failure it writes the 401 and aborts.
func authenticate(c *gin.Context, jwtMgr *jwt.Manager, bl Blacklist) bool {
	fail := func(msg string) bool {
		response.Unauthorized(c, codeUnauthenticated, msg)
		c.Abort()
		return false
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return fail("malformed authorization header")
	}

	claims, err := jwtMgr.ParseToken(parts[1])
	if err != nil {
		return fail("invalid or expired token")
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return fail("invalid token type")
	}

	if bl != nil && claims.ID != "" {
		// a blacklist outage lets the token through
		if revoked, err := bl.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
			return fail("token has been revoked")
		}
	}

	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	c.Set("branch_id", claims.BranchID)
	c.Set("claims", claims)
	return true
}

// RoleAuth coarse gate: the caller must hold one of allowedRoles. Finer
// scope checks happen in the services.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, codeUnauthenticated, "authentication required")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "role may not access this resource")
		c.Abort()
	}
}
