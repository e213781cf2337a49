package model

// Branch university chapter, table branches
type Branch struct {
	ID          uint   `gorm:"primaryKey"                                             json:"id"`
	Name        string `gorm:"type:varchar(80);not null;uniqueIndex:uq_branches_name" json:"name"`
	University  string `gorm:"type:varchar(120);not null"                             json:"university"`
	Province    string `gorm:"type:varchar(40);not null"                              json:"province"`
	MemberCount int    `gorm:"not null;default:0"                                     json:"member_count"`
	AlumniCount int    `gorm:"not null;default:0"                                     json:"alumni_count"`
	VersionedModel
}

// TableName table name
func (Branch) TableName() string { return "branches" }
