package dto

import (
	"time"

	"natesa/backend/pkg/patch"
)

// ── alumni DTOs ──

// CreateAlumniRequest alumni record payload
type CreateAlumniRequest struct {
	UserID         uint       `json:"user_id"         validate:"required"`
	BranchID       uint       `json:"branch_id"       validate:"required"`
	GraduationDate *time.Time `json:"graduation_date"`
	Degree         string     `json:"degree"          validate:"required,max=120"`
	CurrentStatus  string     `json:"current_status"  validate:"omitempty,alumni_status"`
}

// UpdateAlumniRequest sparse alumni patch
type UpdateAlumniRequest struct {
	UserID         patch.Field[uint]      `json:"user_id"`
	BranchID       patch.Field[uint]      `json:"branch_id"`
	GraduationDate patch.Field[time.Time] `json:"graduation_date"`
	Degree         patch.Field[string]    `json:"degree"`
	CurrentStatus  patch.Field[string]    `json:"current_status"`
}

// AlumniListRequest alumni list query
type AlumniListRequest struct {
	PaginationRequest
	BranchID      *uint  `form:"branch_id"`
	CurrentStatus string `form:"current_status"`
}

// AlumniResponse alumni record
type AlumniResponse struct {
	ID             uint   `json:"id"`
	UserID         uint   `json:"user_id"`
	BranchID       uint   `json:"branch_id"`
	GraduationDate string `json:"graduation_date"`
	Degree         string `json:"degree"`
	CurrentStatus  string `json:"current_status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
