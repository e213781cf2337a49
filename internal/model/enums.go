package model

// ── roles ──

const (
	RoleAdmin  = "admin"
	RoleNEC    = "nec"
	RoleBEC    = "bec"
	RoleMember = "member"
	RoleAlumni = "alumni"
)

// Roles every role a user may hold.
var Roles = []string{RoleAdmin, RoleNEC, RoleBEC, RoleMember, RoleAlumni}

// ── user status ──

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusGraduated = "graduated"
)

var UserStatuses = []string{StatusActive, StatusInactive, StatusGraduated}

// ── alumni status ──

const (
	AlumniActive    = "active"
	AlumniCancelled = "cancelled"
	AlumniCompleted = "completed"
	AlumniDraft     = "draft"
)

var AlumniStatuses = []string{AlumniActive, AlumniCancelled, AlumniCompleted, AlumniDraft}

// Provinces the fixed set of regions a branch can belong to.
var Provinces = []string{
	"Eastern Cape",
	"Free State",
	"Gauteng",
	"KwaZulu-Natal",
	"Limpopo",
	"Mpumalanga",
	"Northern Cape",
	"North West",
	"Western Cape",
}

// IsOneOf reports whether v is in set.
func IsOneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
