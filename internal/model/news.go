package model

import "time"

// News branch news post, table news
type News struct {
	ID          uint      `gorm:"primaryKey"                 json:"id"`
	Title       string    `gorm:"type:varchar(160);not null" json:"title"`
	Content     string    `gorm:"type:text;not null"         json:"content"`
	BranchID    uint      `gorm:"not null;index"             json:"branch_id"`
	AuthorID    uint      `gorm:"not null"                   json:"author_id"`
	PublishDate time.Time `gorm:"not null;index"             json:"publish_date"`
	VersionedModel

	Branch *Branch `gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT" json:"-"`
	Author *User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName table name
func (News) TableName() string { return "news" }
