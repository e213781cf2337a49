package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/service"
	"natesa/backend/pkg/response"
)

// EventHandler event endpoints; reads are public
type EventHandler struct {
	eventSvc  service.EventService
	exportSvc service.ExportService
}

// NewEventHandler creates an EventHandler
func NewEventHandler(eventSvc service.EventService, exportSvc service.ExportService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, exportSvc: exportSvc}
}

// ListEvents
// GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBody(c, err)
		return
	}

	events, total, err := h.eventSvc.List(c.Request.Context(), Identity(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, events, total, req.GetPage(), req.GetPageSize())
}

// GetEvent
// GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	event, err := h.eventSvc.GetByID(c.Request.Context(), Identity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, event)
}

// Calendar iCalendar feed of recent and upcoming events
// GET /events/calendar.ics?branch_id=
func (h *EventHandler) Calendar(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBody(c, err)
		return
	}

	data, err := h.exportSvc.EventCalendar(c.Request.Context(), Identity(c), req.BranchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="events.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// CreateEvent
// POST /create_event
func (h *EventHandler) CreateEvent(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, event)
}

// UpdateEvent
// PATCH/PUT /update_event/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), caller, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, event)
}

// DeleteEvent
// DELETE /delete_event/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.DeleteResponse{ID: id, Deleted: true, Entity: "event"})
}
