package handler

import (
	"natesa/backend/config"
	"natesa/backend/internal/service"
)

// Handler aggregates every HTTP handler
type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Branch *BranchHandler
	Alumni *AlumniHandler
	Event  *EventHandler
	News   *NewsHandler
	Export *ExportHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth, cfg),
		User:   NewUserHandler(svc.User),
		Branch: NewBranchHandler(svc.Branch),
		Alumni: NewAlumniHandler(svc.Alumni),
		Event:  NewEventHandler(svc.Event, svc.Export),
		News:   NewNewsHandler(svc.News),
		Export: NewExportHandler(svc.Export),
	}
}
