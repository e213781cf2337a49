package dto

import "time"

// TimeLayout wire format for every timestamp.
const TimeLayout = time.RFC3339

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ── auth responses ──

// TokenResponse token pair plus the public user projection
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresIn    int          `json:"expires_in"` // access token lifetime in seconds
	User         UserResponse `json:"user"`
}

// ── user responses ──

// UserResponse public user projection; never carries the password hash
type UserResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        string         `json:"role"`
	BranchID    *uint          `json:"branch_id"`
	Branch      *BranchSummary `json:"branch,omitempty"`
	IsBECMember bool           `json:"is_bec_member"`
	NECPosition *string        `json:"nec_position"`
	BECPosition *string        `json:"bec_position"`
	Status      string         `json:"status"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// BranchSummary short branch reference embedded in other responses
type BranchSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// DeleteResponse confirmation returned by every delete
type DeleteResponse struct {
	ID      uint   `json:"id"`
	Deleted bool   `json:"deleted"`
	Entity  string `json:"entity"`
}

// ── pagination ──

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset row offset
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
