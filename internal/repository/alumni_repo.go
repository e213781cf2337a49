package repository

import (
	"context"

	"gorm.io/gorm"

	"natesa/backend/internal/model"
)

// AlumniFilter narrows an alumni listing.
type AlumniFilter struct {
	BranchID      *uint
	UserID        *uint
	CurrentStatus string
}

// AlumniRepository alumni data access
type AlumniRepository interface {
	Create(ctx context.Context, alumni *model.Alumni) error
	GetByID(ctx context.Context, id uint) (*model.Alumni, error)
	GetForUpdate(ctx context.Context, id uint) (*model.Alumni, error)
	GetByUserID(ctx context.Context, userID uint) (*model.Alumni, error)
	List(ctx context.Context, filter AlumniFilter, offset, limit int) ([]model.Alumni, int64, error)
	Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	CountByBranch(ctx context.Context, branchID uint) (int64, error)
}

type alumniRepo struct {
	db *gorm.DB
}

// NewAlumniRepo creates an AlumniRepository
func NewAlumniRepo(db *gorm.DB) AlumniRepository {
	return &alumniRepo{db: db}
}

func (r *alumniRepo) Create(ctx context.Context, alumni *model.Alumni) error {
	return translate(r.db.WithContext(ctx).Omit("User", "Branch").Create(alumni).Error)
}

func (r *alumniRepo) GetByID(ctx context.Context, id uint) (*model.Alumni, error) {
	return getByID[model.Alumni](ctx, r.db, id)
}

func (r *alumniRepo) GetForUpdate(ctx context.Context, id uint) (*model.Alumni, error) {
	return lockByID[model.Alumni](ctx, r.db, id)
}

func (r *alumniRepo) GetByUserID(ctx context.Context, userID uint) (*model.Alumni, error) {
	var alumni model.Alumni
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&alumni).Error
	if err != nil {
		return nil, err
	}
	return &alumni, nil
}

func (r *alumniRepo) List(ctx context.Context, filter AlumniFilter, offset, limit int) ([]model.Alumni, int64, error) {
	var rows []model.Alumni
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Alumni{})
	if filter.BranchID != nil {
		db = db.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.CurrentStatus != "" {
		db = db.Where("current_status = ?", filter.CurrentStatus)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(db, offset, limit).
		Order("graduation_date DESC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *alumniRepo) Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error {
	return updateColumns[model.Alumni](ctx, r.db, id, version, columns)
}

func (r *alumniRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Alumni](ctx, r.db, id)
}

func (r *alumniRepo) CountByBranch(ctx context.Context, branchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Alumni{}).
		Where("branch_id = ?", branchID).
		Count(&count).Error
	return count, err
}
