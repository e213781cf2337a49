package service

import (
	"go.uber.org/zap"

	"natesa/backend/config"
	"natesa/backend/internal/repository"
	"natesa/backend/internal/validation"
	"natesa/backend/pkg/jwt"
)

// Service aggregates every business service
type Service struct {
	Auth   AuthService
	User   UserService
	Branch BranchService
	Alumni AlumniService
	Event  EventService
	News   NewsService
	Export ExportService
}

// NewService wires the services over one repository and validation engine.
// tokens may be nil when no revocation store is configured.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	logger *zap.Logger,
) *Service {
	v := validation.New()
	return &Service{
		Auth:   NewAuthService(repo, jwtMgr, tokens, cfg.Auth.BcryptCost, logger),
		User:   NewUserService(repo, v, cfg.Auth.BcryptCost, logger),
		Branch: NewBranchService(repo, v, logger),
		Alumni: NewAlumniService(repo, v, logger),
		Event:  NewEventService(repo, v, logger),
		News:   NewNewsService(repo, v, logger),
		Export: NewExportService(repo, cfg.Calendar, logger),
	}
}
