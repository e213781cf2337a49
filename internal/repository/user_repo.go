package repository

import (
	"context"

	"gorm.io/gorm"

	"natesa/backend/internal/model"
)

// UserFilter narrows a user listing. Zero fields do not filter.
type UserFilter struct {
	BranchID *uint
	UserID   *uint
	Role     string
	Status   string
	Keyword  string
}

// UserRepository user data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetForUpdate(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	CountByBranch(ctx context.Context, branchID uint) (int64, error)
}

// userRepo GORM implementation of UserRepository
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Omit("Branch").Create(user).Error)
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	return getByID[model.User](ctx, r.db, id, "Branch")
}

func (r *userRepo) GetForUpdate(ctx context.Context, id uint) (*model.User, error) {
	return lockByID[model.User](ctx, r.db, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})
	if filter.BranchID != nil {
		db = db.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.UserID != nil {
		db = db.Where("id = ?", *filter.UserID)
	}
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := paginate(db.Preload("Branch"), offset, limit).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepo) Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error {
	return updateColumns[model.User](ctx, r.db, id, version, columns)
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.User](ctx, r.db, id)
}

func (r *userRepo) CountByBranch(ctx context.Context, branchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("branch_id = ?", branchID).
		Count(&count).Error
	return count, err
}
