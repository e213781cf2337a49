package handler

import (
	"github.com/gin-gonic/gin"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/service"
	"natesa/backend/pkg/response"
)

// AlumniHandler alumni record endpoints; all require a signed-in caller
type AlumniHandler struct {
	alumniSvc service.AlumniService
}

// NewAlumniHandler creates an AlumniHandler
func NewAlumniHandler(alumniSvc service.AlumniService) *AlumniHandler {
	return &AlumniHandler{alumniSvc: alumniSvc}
}

// ListAlumni
// GET /alumni
func (h *AlumniHandler) ListAlumni(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.AlumniListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBody(c, err)
		return
	}

	rows, total, err := h.alumniSvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, rows, total, req.GetPage(), req.GetPageSize())
}

// GetAlumni
// GET /alumni/:id
func (h *AlumniHandler) GetAlumni(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.alumniSvc.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, rec)
}

// CreateAlumni
// POST /create_alumni
func (h *AlumniHandler) CreateAlumni(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateAlumniRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	rec, err := h.alumniSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, rec)
}

// UpdateAlumni
// PATCH/PUT /update_alumni/:id
func (h *AlumniHandler) UpdateAlumni(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAlumniRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	rec, err := h.alumniSvc.Update(c.Request.Context(), caller, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, rec)
}

// DeleteAlumni
// DELETE /delete_alumni/:id
func (h *AlumniHandler) DeleteAlumni(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.alumniSvc.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.DeleteResponse{ID: id, Deleted: true, Entity: "alumni"})
}
