package dto

import "natesa/backend/pkg/patch"

// ── branch DTOs ──

// CreateBranchRequest branch creation payload
type CreateBranchRequest struct {
	Name        string `json:"name"         validate:"required,min=2,max=80"`
	University  string `json:"university"   validate:"required,max=120"`
	Province    string `json:"province"     validate:"required,province"`
	MemberCount *int   `json:"member_count" validate:"omitempty,min=0"`
	AlumniCount *int   `json:"alumni_count" validate:"omitempty,min=0"`
}

// UpdateBranchRequest sparse branch patch
type UpdateBranchRequest struct {
	Name        patch.Field[string] `json:"name"`
	University  patch.Field[string] `json:"university"`
	Province    patch.Field[string] `json:"province"`
	MemberCount patch.Field[int]    `json:"member_count"`
	AlumniCount patch.Field[int]    `json:"alumni_count"`
}

// BranchListRequest branch list query
type BranchListRequest struct {
	Province string `form:"province"`
	Keyword  string `form:"keyword" binding:"omitempty,max=50"`
}

// BranchResponse branch detail
type BranchResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	University  string `json:"university"`
	Province    string `json:"province"`
	MemberCount int    `json:"member_count"`
	AlumniCount int    `json:"alumni_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
