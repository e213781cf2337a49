package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"natesa/backend/config"
	"natesa/backend/internal/dto"
	"natesa/backend/internal/service"
	"natesa/backend/pkg/response"
)

const (
	refreshCookie     = "refresh_token"
	refreshCookiePath = "/"
)

// AuthHandler authentication endpoints
type AuthHandler struct {
	authSvc service.AuthService
	cfg     *config.Config
}

// NewAuthHandler creates an AuthHandler. cfg may be nil in tests.
func NewAuthHandler(authSvc service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cfg: cfg}
}

// Login email + password sign-in
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, req.RememberMe)
	response.OK(c, result)
}

// RefreshToken exchanges a refresh token for a new pair. The token comes
// from the body or, failing that, the refresh cookie.
// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		cookie, cerr := c.Cookie(refreshCookie)
		if cerr != nil || cookie == "" {
			badBody(c, err)
			return
		}
		req.RefreshToken = cookie
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, false)
	response.OK(c, result)
}

// Logout revokes the presented tokens
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetIdentity(c); !ok {
		return
	}

	var req dto.LogoutRequest
	// the body is optional
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshCookie)
	}

	if err := h.authSvc.Logout(c.Request.Context(), tokenClaims(c), &req); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(refreshCookie, "", -1, refreshCookiePath, "", h.secure(), true)
	response.OK(c, nil)
}

// GetCurrentUser profile of the signed-in user
// GET /auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, user)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, remember bool) {
	if token == "" {
		return
	}
	maxAge := 0
	if remember && h.cfg != nil {
		maxAge = int(h.cfg.Auth.RefreshTokenTTLRemember.Seconds())
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, maxAge, refreshCookiePath, "", h.secure(), true)
}

func (h *AuthHandler) secure() bool {
	return h.cfg != nil && strings.HasPrefix(h.cfg.Server.BaseURL, "https://")
}
