package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/repository"
	"natesa/backend/internal/validation"
)

// AlumniService alumni record operations
type AlumniService interface {
	Create(ctx context.Context, caller policy.Identity, req *dto.CreateAlumniRequest) (*dto.AlumniResponse, error)
	GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.AlumniResponse, error)
	List(ctx context.Context, caller policy.Identity, req *dto.AlumniListRequest) ([]dto.AlumniResponse, int64, error)
	Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateAlumniRequest) (*dto.AlumniResponse, error)
	Delete(ctx context.Context, caller policy.Identity, id uint) error
}

type alumniService struct {
	repo      *repository.Repository
	validator *validation.Engine
	now       func() time.Time
	logger    *zap.Logger
}

// NewAlumniService creates an AlumniService
func NewAlumniService(repo *repository.Repository, v *validation.Engine, logger *zap.Logger) AlumniService {
	return &alumniService{repo: repo, validator: v, now: time.Now, logger: logger}
}

func alumniScope(a *model.Alumni) policy.Scope {
	branchID := a.BranchID
	return policy.Scope{BranchID: &branchID, OwnerID: a.UserID}
}

// ────────────────────── Create ──────────────────────

func (s *alumniService) Create(ctx context.Context, caller policy.Identity, req *dto.CreateAlumniRequest) (*dto.AlumniResponse, error) {
	req.Degree = strings.TrimSpace(req.Degree)

	scope := policy.Scope{BranchID: &req.BranchID, OwnerID: req.UserID}
	if err := policy.Authorize(caller, policy.OpCreate, policy.EntityAlumni, scope); err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	alumni := &model.Alumni{
		UserID:         req.UserID,
		BranchID:       req.BranchID,
		GraduationDate: s.now().UTC(),
		Degree:         req.Degree,
		CurrentStatus:  model.AlumniDraft,
	}
	if req.GraduationDate != nil {
		alumni.GraduationDate = req.GraduationDate.UTC()
	}
	if req.CurrentStatus != "" {
		alumni.CurrentStatus = req.CurrentStatus
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Alumni.GetByUserID(ctx, alumni.UserID); err == nil {
			return ErrAlumniExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		refs := &refCheck{}
		if err := refs.check("user_id", "user", found(tx.User.GetByID(ctx, alumni.UserID))); err != nil {
			return err
		}
		if err := refs.check("branch_id", "branch", found(tx.Branch.GetByID(ctx, alumni.BranchID))); err != nil {
			return err
		}
		if err := refs.err(); err != nil {
			return err
		}

		return alumniWriteErr(tx.Alumni.Create(ctx, alumni))
	})
	if err != nil {
		return nil, storeFailure(s.logger, "create alumni", err, zap.Uint("user_id", alumni.UserID))
	}

	resp := toAlumniResponse(alumni)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *alumniService) GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.AlumniResponse, error) {
	alumni, err := s.repo.Alumni.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "get alumni", notFound(err, ErrAlumniNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpRead, policy.EntityAlumni, alumniScope(alumni)); err != nil {
		return nil, err
	}
	resp := toAlumniResponse(alumni)
	return &resp, nil
}

func (s *alumniService) List(ctx context.Context, caller policy.Identity, req *dto.AlumniListRequest) ([]dto.AlumniResponse, int64, error) {
	scope, err := policy.ListScope(caller, policy.EntityAlumni)
	if err != nil {
		return nil, 0, err
	}
	filter := repository.AlumniFilter{
		BranchID:      req.BranchID,
		UserID:        scope.OwnerID,
		CurrentStatus: req.CurrentStatus,
	}
	if scope.BranchID != nil {
		filter.BranchID = scope.BranchID
	}

	rows, total, err := s.repo.Alumni.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, storeFailure(s.logger, "list alumni", err)
	}
	return mapSlice(rows, toAlumniResponse), total, nil
}

// ────────────────────── Update ──────────────────────

func (s *alumniService) Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateAlumniRequest) (*dto.AlumniResponse, error) {
	target, err := s.repo.Alumni.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "get alumni", notFound(err, ErrAlumniNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpUpdate, policy.EntityAlumni, alumniScope(target)); err != nil {
		return nil, err
	}
	if err := s.validator.AlumniPatch(req); err != nil {
		return nil, err
	}
	if b, ok := req.BranchID.Get(); ok {
		if err := policy.Authorize(caller, policy.OpUpdate, policy.EntityAlumni, policy.BranchScope(b)); err != nil {
			return nil, err
		}
	}

	columns := map[string]interface{}{}
	if v, ok := req.UserID.Get(); ok {
		columns["user_id"] = v
	}
	if v, ok := req.BranchID.Get(); ok {
		columns["branch_id"] = v
	}
	if v, ok := req.GraduationDate.Get(); ok {
		columns["graduation_date"] = v.UTC()
	}
	if v, ok := req.Degree.Get(); ok {
		columns["degree"] = strings.TrimSpace(v)
	}
	if v, ok := req.CurrentStatus.Get(); ok {
		columns["current_status"] = v
	}

	var updated *model.Alumni
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		locked, err := tx.Alumni.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrAlumniNotFound)
		}

		refs := &refCheck{}
		if userID, ok := req.UserID.Get(); ok && userID != locked.UserID {
			if other, err := tx.Alumni.GetByUserID(ctx, userID); err == nil && other.ID != locked.ID {
				return ErrAlumniExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := refs.check("user_id", "user", found(tx.User.GetByID(ctx, userID))); err != nil {
				return err
			}
		}
		if b, ok := req.BranchID.Get(); ok {
			if err := refs.check("branch_id", "branch", found(tx.Branch.GetByID(ctx, b))); err != nil {
				return err
			}
		}
		if err := refs.err(); err != nil {
			return err
		}

		if err := alumniWriteErr(tx.Alumni.Update(ctx, locked.ID, locked.Version, columns)); err != nil {
			return err
		}
		updated, err = tx.Alumni.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeFailure(s.logger, "update alumni", err, zap.Uint("id", id))
	}

	resp := toAlumniResponse(updated)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *alumniService) Delete(ctx context.Context, caller policy.Identity, id uint) error {
	target, err := s.repo.Alumni.GetByID(ctx, id)
	if err != nil {
		return storeFailure(s.logger, "get alumni", notFound(err, ErrAlumniNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpDelete, policy.EntityAlumni, alumniScope(target)); err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Alumni.GetForUpdate(ctx, id); err != nil {
			return notFound(err, ErrAlumniNotFound)
		}
		return deleteErr(tx.Alumni.Delete(ctx, id), ErrAlumniNotFound)
	})
	return storeFailure(s.logger, "delete alumni", err, zap.Uint("id", id))
}

func alumniWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsDuplicate(err, repository.ConstraintAlumniUserID):
		return ErrAlumniExists
	case repository.IsForeignKey(err):
		return ErrReferenceMissing
	}
	return notFound(err, ErrAlumniNotFound)
}
