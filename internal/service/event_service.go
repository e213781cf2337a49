package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/repository"
	"natesa/backend/internal/validation"
)

// EventService branch event operations
type EventService interface {
	Create(ctx context.Context, caller policy.Identity, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.EventResponse, error)
	List(ctx context.Context, caller policy.Identity, req *dto.EventListRequest) ([]dto.EventResponse, int64, error)
	Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, caller policy.Identity, id uint) error
}

type eventService struct {
	repo      *repository.Repository
	validator *validation.Engine
	logger    *zap.Logger
}

// NewEventService creates an EventService
func NewEventService(repo *repository.Repository, v *validation.Engine, logger *zap.Logger) EventService {
	return &eventService{repo: repo, validator: v, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, caller policy.Identity, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.EventType = strings.TrimSpace(req.EventType)

	if err := policy.Authorize(caller, policy.OpCreate, policy.EntityEvent, policy.BranchScope(req.BranchID)); err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	event := &model.Event{
		Title:     req.Title,
		Date:      req.Date.UTC(),
		BranchID:  req.BranchID,
		CreatedBy: req.CreatedBy,
		EventType: req.EventType,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkBranchAndUser(ctx, tx, event.BranchID, "created_by", event.CreatedBy); err != nil {
			return err
		}
		return contentWriteErr(tx.Event.Create(ctx, event), ErrEventNotFound)
	})
	if err != nil {
		return nil, storeFailure(s.logger, "create event", err, zap.String("title", event.Title))
	}

	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *eventService) GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "get event", notFound(err, ErrEventNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpRead, policy.EntityEvent, policy.BranchScope(event.BranchID)); err != nil {
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) List(ctx context.Context, caller policy.Identity, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	scope, err := policy.ListScope(caller, policy.EntityEvent)
	if err != nil {
		return nil, 0, err
	}
	filter := repository.EventFilter{BranchID: req.BranchID, EventType: req.EventType}
	if scope.BranchID != nil {
		filter.BranchID = scope.BranchID
	}

	events, total, err := s.repo.Event.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, storeFailure(s.logger, "list events", err)
	}
	return mapSlice(events, toEventResponse), total, nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	target, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "get event", notFound(err, ErrEventNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpUpdate, policy.EntityEvent, policy.BranchScope(target.BranchID)); err != nil {
		return nil, err
	}
	if err := s.validator.EventPatch(req); err != nil {
		return nil, err
	}
	if b, ok := req.BranchID.Get(); ok {
		if err := policy.Authorize(caller, policy.OpUpdate, policy.EntityEvent, policy.BranchScope(b)); err != nil {
			return nil, err
		}
	}

	columns := map[string]interface{}{}
	if v, ok := req.Title.Get(); ok {
		columns["title"] = strings.TrimSpace(v)
	}
	if v, ok := req.Date.Get(); ok {
		columns["date"] = v.UTC()
	}
	if v, ok := req.BranchID.Get(); ok {
		columns["branch_id"] = v
	}
	if v, ok := req.CreatedBy.Get(); ok {
		columns["created_by"] = v
	}
	if v, ok := req.EventType.Get(); ok {
		columns["event_type"] = strings.TrimSpace(v)
	}

	var updated *model.Event
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		locked, err := tx.Event.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrEventNotFound)
		}
		branchID, _ := req.BranchID.Get()
		userID, _ := req.CreatedBy.Get()
		if err := checkBranchAndUser(ctx, tx, branchID, "created_by", userID); err != nil {
			return err
		}
		if err := contentWriteErr(tx.Event.Update(ctx, locked.ID, locked.Version, columns), ErrEventNotFound); err != nil {
			return err
		}
		updated, err = tx.Event.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeFailure(s.logger, "update event", err, zap.Uint("id", id))
	}

	resp := toEventResponse(updated)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, caller policy.Identity, id uint) error {
	target, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		return storeFailure(s.logger, "get event", notFound(err, ErrEventNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpDelete, policy.EntityEvent, policy.BranchScope(target.BranchID)); err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Event.GetForUpdate(ctx, id); err != nil {
			return notFound(err, ErrEventNotFound)
		}
		return deleteErr(tx.Event.Delete(ctx, id), ErrEventNotFound)
	})
	return storeFailure(s.logger, "delete event", err, zap.Uint("id", id))
}

// ── shared by events and news ──

// checkBranchAndUser verifies the branch and user references; zero ids are skipped.
func checkBranchAndUser(ctx context.Context, tx *repository.Repository, branchID uint, userField string, userID uint) error {
	refs := &refCheck{}
	if branchID != 0 {
		if err := refs.check("branch_id", "branch", found(tx.Branch.GetByID(ctx, branchID))); err != nil {
			return err
		}
	}
	if userID != 0 {
		if err := refs.check(userField, "user", found(tx.User.GetByID(ctx, userID))); err != nil {
			return err
		}
	}
	return refs.err()
}

func contentWriteErr(err, missing error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsForeignKey(err):
		return ErrReferenceMissing
	}
	return notFound(err, missing)
}
