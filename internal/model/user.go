package model

// User member account, table users
type User struct {
	ID           uint    `gorm:"primaryKey"                                   json:"id"`
	Name         string  `gorm:"type:varchar(80);not null"                    json:"name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                   json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'member'"   json:"role"`
	BranchID     *uint   `gorm:"index"                                        json:"branch_id"`
	IsBECMember  bool    `gorm:"column:is_bec_member;not null;default:false"  json:"is_bec_member"`
	NECPosition  *string `gorm:"column:nec_position;type:varchar(80)"         json:"nec_position"`
	BECPosition  *string `gorm:"column:bec_position;type:varchar(80)"         json:"bec_position"`
	Status       string  `gorm:"type:varchar(20);not null;default:'active'"   json:"status"`
	VersionedModel

	Branch *Branch `gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT" json:"branch,omitempty"`
}

// TableName table name
func (User) TableName() string { return "users" }

// InBranch reports whether the user is assigned to branchID.
func (u *User) InBranch(branchID uint) bool {
	return u.BranchID != nil && *u.BranchID == branchID
}
