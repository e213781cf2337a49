package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/repository"
	"natesa/backend/internal/validation"
)

// BranchService branch business operations
type BranchService interface {
	Create(ctx context.Context, caller policy.Identity, req *dto.CreateBranchRequest) (*dto.BranchResponse, error)
	GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.BranchResponse, error)
	List(ctx context.Context, caller policy.Identity, req *dto.BranchListRequest) ([]dto.BranchResponse, error)
	Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateBranchRequest) (*dto.BranchResponse, error)
	Delete(ctx context.Context, caller policy.Identity, id uint) error
	// Recount recomputes the stored member and alumni counters.
	Recount(ctx context.Context, caller policy.Identity, id uint) (*dto.BranchResponse, error)
}

type branchService struct {
	repo      *repository.Repository
	validator *validation.Engine
	logger    *zap.Logger
}

// NewBranchService creates a BranchService
func NewBranchService(repo *repository.Repository, v *validation.Engine, logger *zap.Logger) BranchService {
	return &branchService{repo: repo, validator: v, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *branchService) Create(ctx context.Context, caller policy.Identity, req *dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := policy.Authorize(caller, policy.OpCreate, policy.EntityBranch, policy.Scope{}); err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	branch := &model.Branch{
		Name:       req.Name,
		University: strings.TrimSpace(req.University),
		Province:   req.Province,
	}
	if req.MemberCount != nil {
		branch.MemberCount = *req.MemberCount
	}
	if req.AlumniCount != nil {
		branch.AlumniCount = *req.AlumniCount
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Branch.GetByName(ctx, branch.Name); err == nil {
			return ErrBranchNameExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return branchWriteErr(tx.Branch.Create(ctx, branch))
	})
	if err != nil {
		return nil, storeFailure(s.logger, "create branch", err, zap.String("name", branch.Name))
	}

	resp := toBranchResponse(branch)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *branchService) GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.BranchResponse, error) {
	if err := policy.Authorize(caller, policy.OpRead, policy.EntityBranch, policy.BranchScope(id)); err != nil {
		return nil, err
	}
	branch, err := s.repo.Branch.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "get branch", notFound(err, ErrBranchNotFound), zap.Uint("id", id))
	}
	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) List(ctx context.Context, caller policy.Identity, req *dto.BranchListRequest) ([]dto.BranchResponse, error) {
	if _, err := policy.ListScope(caller, policy.EntityBranch); err != nil {
		return nil, err
	}
	branches, err := s.repo.Branch.List(ctx, repository.BranchFilter{
		Province: req.Province,
		Keyword:  strings.TrimSpace(req.Keyword),
	})
	if err != nil {
		return nil, storeFailure(s.logger, "list branches", err)
	}
	return mapSlice(branches, toBranchResponse), nil
}

// ────────────────────── Update ──────────────────────

func (s *branchService) Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	if _, err := s.repo.Branch.GetByID(ctx, id); err != nil {
		return nil, storeFailure(s.logger, "get branch", notFound(err, ErrBranchNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpUpdate, policy.EntityBranch, policy.BranchScope(id)); err != nil {
		return nil, err
	}
	if err := s.validator.BranchPatch(req); err != nil {
		return nil, err
	}

	columns := map[string]interface{}{}
	if v, ok := req.Name.Get(); ok {
		columns["name"] = strings.TrimSpace(v)
	}
	if v, ok := req.University.Get(); ok {
		columns["university"] = strings.TrimSpace(v)
	}
	if v, ok := req.Province.Get(); ok {
		columns["province"] = v
	}
	if v, ok := req.MemberCount.Get(); ok {
		columns["member_count"] = v
	}
	if v, ok := req.AlumniCount.Get(); ok {
		columns["alumni_count"] = v
	}

	var updated *model.Branch
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		locked, err := tx.Branch.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrBranchNotFound)
		}
		if name, ok := columns["name"].(string); ok && name != locked.Name {
			if other, err := tx.Branch.GetByName(ctx, name); err == nil && other.ID != locked.ID {
				return ErrBranchNameExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if err := branchWriteErr(tx.Branch.Update(ctx, locked.ID, locked.Version, columns)); err != nil {
			return err
		}
		updated, err = tx.Branch.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeFailure(s.logger, "update branch", err, zap.Uint("id", id))
	}

	resp := toBranchResponse(updated)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *branchService) Delete(ctx context.Context, caller policy.Identity, id uint) error {
	if _, err := s.repo.Branch.GetByID(ctx, id); err != nil {
		return storeFailure(s.logger, "get branch", notFound(err, ErrBranchNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpDelete, policy.EntityBranch, policy.BranchScope(id)); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Branch.GetForUpdate(ctx, id); err != nil {
			return notFound(err, ErrBranchNotFound)
		}
		members, err := tx.User.CountByBranch(ctx, id)
		if err != nil {
			return err
		}
		if members > 0 {
			return ErrBranchHasUsers
		}
		return deleteErr(tx.Branch.Delete(ctx, id), ErrBranchNotFound)
	})
	return storeFailure(s.logger, "delete branch", err, zap.Uint("id", id))
}

// ────────────────────── Recount ──────────────────────

func (s *branchService) Recount(ctx context.Context, caller policy.Identity, id uint) (*dto.BranchResponse, error) {
	if err := policy.Authorize(caller, policy.OpUpdate, policy.EntityBranch, policy.BranchScope(id)); err != nil {
		return nil, err
	}

	var updated *model.Branch
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		locked, err := tx.Branch.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrBranchNotFound)
		}
		members, err := tx.User.CountByBranch(ctx, id)
		if err != nil {
			return err
		}
		alumni, err := tx.Alumni.CountByBranch(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Branch.Update(ctx, locked.ID, locked.Version, map[string]interface{}{
			"member_count": int(members),
			"alumni_count": int(alumni),
		}); err != nil {
			return err
		}
		updated, err = tx.Branch.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeFailure(s.logger, "recount branch", err, zap.Uint("id", id))
	}

	s.logger.Info("branch counters recomputed",
		zap.Uint("id", id),
		zap.Int("member_count", updated.MemberCount),
		zap.Int("alumni_count", updated.AlumniCount),
	)
	resp := toBranchResponse(updated)
	return &resp, nil
}

func branchWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsDuplicate(err, repository.ConstraintBranchName):
		return ErrBranchNameExists
	}
	return notFound(err, ErrBranchNotFound)
}
