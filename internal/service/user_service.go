package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/model"
	"natesa/backend/internal/policy"
	"natesa/backend/internal/repository"
	"natesa/backend/internal/validation"
)

// UserService user business operations
type UserService interface {
	Create(ctx context.Context, caller policy.Identity, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.UserResponse, error)
	List(ctx context.Context, caller policy.Identity, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, caller policy.Identity, id uint) error
}

type userService struct {
	repo       *repository.Repository
	validator  *validation.Engine
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, v *validation.Engine, bcryptCost int, logger *zap.Logger) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{repo: repo, validator: v, bcryptCost: bcryptCost, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userScope(u *model.User) policy.Scope {
	return policy.Scope{BranchID: u.BranchID, OwnerID: u.ID}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, caller policy.Identity, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := policy.Authorize(caller, policy.OpCreate, policy.EntityUser, policy.Scope{BranchID: req.BranchID}); err != nil {
		return nil, err
	}
	if caller.IsAnonymous() && (req.IsBECMember || req.NECPosition != nil || req.BECPosition != nil ||
		(req.Status != "" && req.Status != model.StatusActive)) {
		return nil, policy.ErrPrivilegedField
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}
	if err := policy.CanGrant(caller, req.Role); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, storeFailure(s.logger, "hash password", err)
	}

	status := req.Status
	if status == "" {
		status = model.StatusActive
	}
	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		BranchID:     req.BranchID,
		IsBECMember:  req.IsBECMember,
		NECPosition:  req.NECPosition,
		BECPosition:  req.BECPosition,
		Status:       status,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.GetByEmail(ctx, user.Email); err == nil {
			return ErrEmailExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		refs := &refCheck{}
		if err := refs.check("branch_id", "branch", found(tx.Branch.GetByID(ctx, *user.BranchID))); err != nil {
			return err
		}
		if err := refs.err(); err != nil {
			return err
		}

		return userWriteErr(tx.User.Create(ctx, user))
	})
	if err != nil {
		return nil, storeFailure(s.logger, "create user", err, zap.String("email", user.Email))
	}

	return s.reload(ctx, user.ID)
}

// ────────────────────── Read ──────────────────────

func (s *userService) GetByID(ctx context.Context, caller policy.Identity, id uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "get user", notFound(err, ErrUserNotFound), zap.Uint("id", id))
	}
	if err := policy.Authorize(caller, policy.OpRead, policy.EntityUser, userScope(user)); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, caller policy.Identity, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	scope, err := policy.ListScope(caller, policy.EntityUser)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.UserFilter{
		BranchID: req.BranchID,
		UserID:   scope.OwnerID,
		Role:     req.Role,
		Status:   req.Status,
		Keyword:  strings.TrimSpace(req.Keyword),
	}
	// the caller's scope always wins over a requested branch
	if scope.BranchID != nil {
		filter.BranchID = scope.BranchID
	}

	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, storeFailure(s.logger, "list users", err)
	}
	return mapSlice(users, toUserResponse), total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, caller policy.Identity, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	target, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "get user", notFound(err, ErrUserNotFound), zap.Uint("id", id))
	}

	if err := s.authorizeWrite(caller, policy.OpUpdate, target); err != nil {
		return nil, err
	}
	if policy.AccessFor(caller, policy.OpUpdate, policy.EntityUser) == policy.AccessSelf {
		for _, field := range req.Supplied() {
			if model.IsOneOf(field, policy.PrivilegedUserFields) {
				return nil, policy.ErrPrivilegedField
			}
		}
	}

	if err := s.validator.UserPatch(req); err != nil {
		return nil, err
	}

	if role, ok := req.Role.Get(); ok {
		if err := policy.CanGrant(caller, role); err != nil {
			return nil, err
		}
	}
	if req.BranchID.Present() {
		scope := policy.Scope{OwnerID: target.ID}
		if b, ok := req.BranchID.Get(); ok {
			scope.BranchID = &b
		}
		if err := policy.Authorize(caller, policy.OpUpdate, policy.EntityUser, scope); err != nil {
			return nil, err
		}
	}

	columns, err := s.userColumns(req)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		locked, err := tx.User.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}

		if email, ok := columns["email"].(string); ok && email != locked.Email {
			if other, err := tx.User.GetByEmail(ctx, email); err == nil && other.ID != locked.ID {
				return ErrEmailExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		refs := &refCheck{}
		if b, ok := req.BranchID.Get(); ok {
			if err := refs.check("branch_id", "branch", found(tx.Branch.GetByID(ctx, b))); err != nil {
				return err
			}
		}
		if err := refs.err(); err != nil {
			return err
		}

		return userWriteErr(tx.User.Update(ctx, locked.ID, locked.Version, columns))
	})
	if err != nil {
		return nil, storeFailure(s.logger, "update user", err, zap.Uint("id", id))
	}

	return s.reload(ctx, id)
}

// userColumns turns the supplied patch fields into column assignments.
func (s *userService) userColumns(req *dto.UpdateUserRequest) (map[string]interface{}, error) {
	columns := map[string]interface{}{}
	if v, ok := req.Name.Get(); ok {
		columns["name"] = strings.TrimSpace(v)
	}
	if v, ok := req.Email.Get(); ok {
		columns["email"] = normalizeEmail(v)
	}
	if v, ok := req.Password.Get(); ok {
		hash, err := bcrypt.GenerateFromPassword([]byte(v), s.bcryptCost)
		if err != nil {
			return nil, storeFailure(s.logger, "hash password", err)
		}
		columns["password_hash"] = string(hash)
	}
	if v, ok := req.Role.Get(); ok {
		columns["role"] = v
	}
	if req.BranchID.Present() {
		var branchID *uint
		req.BranchID.ApplyNullable(&branchID)
		columns["branch_id"] = branchID
	}
	if v, ok := req.IsBECMember.Get(); ok {
		columns["is_bec_member"] = v
	}
	if req.NECPosition.Present() {
		var pos *string
		req.NECPosition.ApplyNullable(&pos)
		columns["nec_position"] = pos
	}
	if req.BECPosition.Present() {
		var pos *string
		req.BECPosition.ApplyNullable(&pos)
		columns["bec_position"] = pos
	}
	if v, ok := req.Status.Get(); ok {
		columns["status"] = v
	}
	return columns, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, caller policy.Identity, id uint) error {
	target, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return storeFailure(s.logger, "get user", notFound(err, ErrUserNotFound), zap.Uint("id", id))
	}

	if err := s.authorizeWrite(caller, policy.OpDelete, target); err != nil {
		return err
	}
	if target.ID == caller.UserID && policy.AccessFor(caller, policy.OpDelete, policy.EntityUser) != policy.AccessSelf {
		return ErrUserSelfDelete
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.GetForUpdate(ctx, id); err != nil {
			return notFound(err, ErrUserNotFound)
		}
		return deleteErr(tx.User.Delete(ctx, id), ErrUserNotFound)
	})
	return storeFailure(s.logger, "delete user", err, zap.Uint("id", id))
}

// ────────────────────── helpers ──────────────────────

// authorizeWrite checks the policy table and, for officers acting on
// another account, that they could have granted the target's role.
func (s *userService) authorizeWrite(caller policy.Identity, op policy.Operation, target *model.User) error {
	if err := policy.Authorize(caller, op, policy.EntityUser, userScope(target)); err != nil {
		return err
	}
	if target.ID == caller.UserID {
		return nil
	}
	return policy.CanGrant(caller, target.Role)
}

func (s *userService) reload(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "reload user", notFound(err, ErrUserNotFound), zap.Uint("id", id))
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func userWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsDuplicate(err, repository.ConstraintUserEmail):
		return ErrEmailExists
	case repository.IsForeignKey(err):
		return ErrReferenceMissing
	}
	return notFound(err, ErrUserNotFound)
}

// deleteErr maps a delete failure; a foreign key violation means other
// rows still reference the target.
func deleteErr(err, missing error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsForeignKey(err):
		return ErrRecordInUse
	}
	return notFound(err, missing)
}
