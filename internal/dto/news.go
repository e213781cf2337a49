package dto

import (
	"time"

	"natesa/backend/pkg/patch"
)

// ── news DTOs ──

// CreateNewsRequest news payload
type CreateNewsRequest struct {
	Title       string     `json:"title"        validate:"required,max=160"`
	Content     string     `json:"content"      validate:"required"`
	BranchID    uint       `json:"branch_id"    validate:"required"`
	AuthorID    uint       `json:"author_id"    validate:"required"`
	PublishDate *time.Time `json:"publish_date"`
}

// UpdateNewsRequest sparse news patch
type UpdateNewsRequest struct {
	Title       patch.Field[string]    `json:"title"`
	Content     patch.Field[string]    `json:"content"`
	BranchID    patch.Field[uint]      `json:"branch_id"`
	AuthorID    patch.Field[uint]      `json:"author_id"`
	PublishDate patch.Field[time.Time] `json:"publish_date"`
}

// NewsListRequest news list query
type NewsListRequest struct {
	PaginationRequest
	BranchID *uint `form:"branch_id"`
}

// NewsResponse news post
type NewsResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	BranchID    uint   `json:"branch_id"`
	AuthorID    uint   `json:"author_id"`
	PublishDate string `json:"publish_date"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
