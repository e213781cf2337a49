package dto

import "natesa/backend/pkg/patch"

// ── user DTOs ──

// CreateUserRequest registration / user creation payload
type CreateUserRequest struct {
	Name        string  `json:"name"          validate:"required,min=2,max=80"`
	Email       string  `json:"email"         validate:"required,email,max=255"`
	Password    string  `json:"password"      validate:"required,password"`
	Role        string  `json:"role"          validate:"required,role"`
	BranchID    *uint   `json:"branch_id"     validate:"required"`
	IsBECMember bool    `json:"is_bec_member"`
	NECPosition *string `json:"nec_position"  validate:"omitempty,max=80"`
	BECPosition *string `json:"bec_position"  validate:"omitempty,max=80"`
	Status      string  `json:"status"        validate:"omitempty,user_status"`
}

// UpdateUserRequest sparse user patch
type UpdateUserRequest struct {
	Name        patch.Field[string] `json:"name"`
	Email       patch.Field[string] `json:"email"`
	Password    patch.Field[string] `json:"password"`
	Role        patch.Field[string] `json:"role"`
	BranchID    patch.Field[uint]   `json:"branch_id"`
	IsBECMember patch.Field[bool]   `json:"is_bec_member"`
	NECPosition patch.Field[string] `json:"nec_position"`
	BECPosition patch.Field[string] `json:"bec_position"`
	Status      patch.Field[string] `json:"status"`
}

// UserListRequest user list query
type UserListRequest struct {
	PaginationRequest
	BranchID *uint  `form:"branch_id"`
	Role     string `form:"role"`
	Status   string `form:"status"`
	Keyword  string `form:"keyword" binding:"omitempty,max=50"`
}

// Supplied json names of the fields present in the patch
func (r *UpdateUserRequest) Supplied() []string {
	var out []string
	add := func(name string, present bool) {
		if present {
			out = append(out, name)
		}
	}
	add("name", r.Name.Present())
	add("email", r.Email.Present())
	add("password", r.Password.Present())
	add("role", r.Role.Present())
	add("branch_id", r.BranchID.Present())
	add("is_bec_member", r.IsBECMember.Present())
	add("nec_position", r.NECPosition.Present())
	add("bec_position", r.BECPosition.Present())
	add("status", r.Status.Present())
	return out
}
