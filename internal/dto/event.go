package dto

import (
	"time"

	"natesa/backend/pkg/patch"
)

// ── event DTOs ──

// CreateEventRequest event payload; every field is required
type CreateEventRequest struct {
	Title     string    `json:"title"      validate:"required,max=120"`
	Date      time.Time `json:"date"       validate:"required"`
	BranchID  uint      `json:"branch_id"  validate:"required"`
	CreatedBy uint      `json:"created_by" validate:"required"`
	EventType string    `json:"event_type" validate:"required,max=60"`
}

// UpdateEventRequest sparse event patch
type UpdateEventRequest struct {
	Title     patch.Field[string]    `json:"title"`
	Date      patch.Field[time.Time] `json:"date"`
	BranchID  patch.Field[uint]      `json:"branch_id"`
	CreatedBy patch.Field[uint]      `json:"created_by"`
	EventType patch.Field[string]    `json:"event_type"`
}

// EventListRequest event list query
type EventListRequest struct {
	PaginationRequest
	BranchID  *uint  `form:"branch_id"`
	EventType string `form:"event_type"`
}

// EventResponse event
type EventResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	BranchID  uint   `json:"branch_id"`
	CreatedBy uint   `json:"created_by"`
	EventType string `json:"event_type"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
