package model

import "time"

// Alumni graduate record, at most one per user, table alumni
type Alumni struct {
	ID             uint      `gorm:"primaryKey"                                       json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:uq_alumni_user_id"           json:"user_id"`
	BranchID       uint      `gorm:"not null;index"                                   json:"branch_id"`
	GraduationDate time.Time `gorm:"not null"                                         json:"graduation_date"`
	Degree         string    `gorm:"type:varchar(120);not null"                       json:"degree"`
	CurrentStatus  string    `gorm:"type:varchar(20);not null;default:'draft'"        json:"current_status"`
	VersionedModel

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"   json:"-"`
	Branch *Branch `gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName table name
func (Alumni) TableName() string { return "alumni" }
