package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"natesa/backend/internal/policy"
	"natesa/backend/pkg/jwt"
	"natesa/backend/pkg/response"
)

// Context keys populated by the auth middleware.
const (
	ctxUserID   = "user_id"
	ctxRole     = "role"
	ctxBranchID = "branch_id"
	ctxClaims   = "claims"
)

// Identity returns the caller attached by the auth middleware, or the
// anonymous identity when the request carried no token.
func Identity(c *gin.Context) policy.Identity {
	id := policy.Anonymous()
	if v, ok := c.Get(ctxUserID); ok {
		id.UserID, _ = v.(uint)
	}
	if v, ok := c.Get(ctxRole); ok {
		id.Role, _ = v.(string)
	}
	if v, ok := c.Get(ctxBranchID); ok {
		id.BranchID, _ = v.(*uint)
	}
	return id
}

// MustGetIdentity like Identity but writes a 401 when nobody is signed in.
// Callers return immediately when ok is false.
func MustGetIdentity(c *gin.Context) (policy.Identity, bool) {
	id := Identity(c)
	if id.IsAnonymous() {
		response.Unauthorized(c, codeUnauthenticated, "authentication required")
		return id, false
	}
	return id, true
}

// tokenClaims the parsed access token, nil when absent.
func tokenClaims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// parseID reads a numeric path parameter, writing a 400 on failure.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, codeValidation, "invalid "+name+": "+raw)
		return 0, false
	}
	return uint(id), true
}
