package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler file download endpoints
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportUsers member roster as xlsx, same filters and scope as GET /users
// GET /users/export
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBody(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportUsers(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
