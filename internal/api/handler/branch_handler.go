package handler

import (
	"github.com/gin-gonic/gin"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/service"
	"natesa/backend/pkg/response"
)

// BranchHandler branch endpoints
type BranchHandler struct {
	branchSvc service.BranchService
}

// NewBranchHandler creates a BranchHandler
func NewBranchHandler(branchSvc service.BranchService) *BranchHandler {
	return &BranchHandler{branchSvc: branchSvc}
}

// ListBranches public branch directory
// GET /branches
func (h *BranchHandler) ListBranches(c *gin.Context) {
	var req dto.BranchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBody(c, err)
		return
	}

	branches, err := h.branchSvc.List(c.Request.Context(), Identity(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, branches)
}

// GetBranch
// GET /branches/:id
func (h *BranchHandler) GetBranch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchSvc.GetByID(c.Request.Context(), Identity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, branch)
}

// CreateBranch
// POST /create_branch
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	branch, err := h.branchSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, branch)
}

// UpdateBranch sparse update
// PATCH/PUT /update_branch/:id
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	branch, err := h.branchSvc.Update(c.Request.Context(), caller, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, branch)
}

// DeleteBranch refused while users are still assigned
// DELETE /delete_branch/:id
func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.branchSvc.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.DeleteResponse{ID: id, Deleted: true, Entity: "branch"})
}

// RecountBranch recomputes member and alumni counters
// POST /branches/:id/recount
func (h *BranchHandler) RecountBranch(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchSvc.Recount(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, branch)
}
