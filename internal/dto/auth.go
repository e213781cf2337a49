package dto

// ── auth DTOs ──

// LoginRequest login payload
type LoginRequest struct {
	Email      string `json:"email"       binding:"required"`
	Password   string `json:"password"    binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest refresh payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally revokes the refresh token alongside the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
