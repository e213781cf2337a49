package validation

import (
	"natesa/backend/internal/dto"
)

// Patch rules mirror the create tags in the dto package; only supplied keys are checked.

// UserPatch validates the supplied fields of a user patch.
func (e *Engine) UserPatch(req *dto.UpdateUserRequest) error {
	s := e.sparse()
	check(s, "name", req.Name, "required,min=2,max=80", false)
	check(s, "email", req.Email, "required,email,max=255", false)
	check(s, "password", req.Password, "required,password", false)
	check(s, "role", req.Role, "required,role", false)
	check(s, "branch_id", req.BranchID, "required", true)
	check(s, "is_bec_member", req.IsBECMember, "", false)
	check(s, "nec_position", req.NECPosition, "max=80", true)
	check(s, "bec_position", req.BECPosition, "max=80", true)
	check(s, "status", req.Status, "required,user_status", false)
	return s.err()
}

// BranchPatch validates the supplied fields of a branch patch.
func (e *Engine) BranchPatch(req *dto.UpdateBranchRequest) error {
	s := e.sparse()
	check(s, "name", req.Name, "required,min=2,max=80", false)
	check(s, "university", req.University, "required,max=120", false)
	check(s, "province", req.Province, "required,province", false)
	check(s, "member_count", req.MemberCount, "min=0", false)
	check(s, "alumni_count", req.AlumniCount, "min=0", false)
	return s.err()
}

// AlumniPatch validates the supplied fields of an alumni patch.
func (e *Engine) AlumniPatch(req *dto.UpdateAlumniRequest) error {
	s := e.sparse()
	check(s, "user_id", req.UserID, "required", false)
	check(s, "branch_id", req.BranchID, "required", false)
	check(s, "graduation_date", req.GraduationDate, "required", false)
	check(s, "degree", req.Degree, "required,max=120", false)
	check(s, "current_status", req.CurrentStatus, "required,alumni_status", false)
	return s.err()
}

// EventPatch validates the supplied fields of an event patch.
func (e *Engine) EventPatch(req *dto.UpdateEventRequest) error {
	s := e.sparse()
	check(s, "title", req.Title, "required,max=120", false)
	check(s, "date", req.Date, "required", false)
	check(s, "branch_id", req.BranchID, "required", false)
	check(s, "created_by", req.CreatedBy, "required", false)
	check(s, "event_type", req.EventType, "required,max=60", false)
	return s.err()
}

// NewsPatch validates the supplied fields of a news patch.
func (e *Engine) NewsPatch(req *dto.UpdateNewsRequest) error {
	s := e.sparse()
	check(s, "title", req.Title, "required,max=160", false)
	check(s, "content", req.Content, "required", false)
	check(s, "branch_id", req.BranchID, "required", false)
	check(s, "author_id", req.AuthorID, "required", false)
	check(s, "publish_date", req.PublishDate, "required", false)
	return s.err()
}
