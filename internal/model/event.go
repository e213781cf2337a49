package model

import "time"

// Event branch event, table events
type Event struct {
	ID        uint      `gorm:"primaryKey"                 json:"id"`
	Title     string    `gorm:"type:varchar(120);not null" json:"title"`
	Date      time.Time `gorm:"not null;index"             json:"date"`
	BranchID  uint      `gorm:"not null;index"             json:"branch_id"`
	CreatedBy uint      `gorm:"not null"                   json:"created_by"`
	EventType string    `gorm:"type:varchar(60);not null"  json:"event_type"`
	VersionedModel

	Branch  *Branch `gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT"  json:"-"`
	Creator *User   `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName table name
func (Event) TableName() string { return "events" }
