package handler

import (
	"github.com/gin-gonic/gin"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/service"
	"natesa/backend/pkg/response"
)

// NewsHandler news endpoints; reads are public
type NewsHandler struct {
	newsSvc service.NewsService
}

// NewNewsHandler creates a NewsHandler
func NewNewsHandler(newsSvc service.NewsService) *NewsHandler {
	return &NewsHandler{newsSvc: newsSvc}
}

// ListNews newest first
// GET /news
func (h *NewsHandler) ListNews(c *gin.Context) {
	var req dto.NewsListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBody(c, err)
		return
	}

	posts, total, err := h.newsSvc.List(c.Request.Context(), Identity(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, posts, total, req.GetPage(), req.GetPageSize())
}

// ListBranchNews
// GET /news/branch/:id
func (h *NewsHandler) ListBranchNews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		badBody(c, err)
		return
	}

	posts, total, err := h.newsSvc.ListByBranch(c.Request.Context(), Identity(c), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, posts, total, page.GetPage(), page.GetPageSize())
}

// GetNews
// GET /news/:id
func (h *NewsHandler) GetNews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	post, err := h.newsSvc.GetByID(c.Request.Context(), Identity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, post)
}

// CreateNews
// POST /create_news
func (h *NewsHandler) CreateNews(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	post, err := h.newsSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, post)
}

// UpdateNews
// PATCH/PUT /update_news/:id
func (h *NewsHandler) UpdateNews(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	post, err := h.newsSvc.Update(c.Request.Context(), caller, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, post)
}

// DeleteNews
// DELETE /delete_news/:id
func (h *NewsHandler) DeleteNews(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.newsSvc.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.DeleteResponse{ID: id, Deleted: true, Entity: "news"})
}
