package repository

import (
	"context"

	"gorm.io/gorm"

	"natesa/backend/internal/model"
)

// BranchFilter narrows a branch listing.
type BranchFilter struct {
	Province string
	Keyword  string
}

// BranchRepository branch data access
type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) error
	GetByID(ctx context.Context, id uint) (*model.Branch, error)
	GetForUpdate(ctx context.Context, id uint) (*model.Branch, error)
	GetByName(ctx context.Context, name string) (*model.Branch, error)
	List(ctx context.Context, filter BranchFilter) ([]model.Branch, error)
	Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type branchRepo struct {
	db *gorm.DB
}

// NewBranchRepo creates a BranchRepository
func NewBranchRepo(db *gorm.DB) BranchRepository {
	return &branchRepo{db: db}
}

func (r *branchRepo) Create(ctx context.Context, branch *model.Branch) error {
	return translate(r.db.WithContext(ctx).Create(branch).Error)
}

func (r *branchRepo) GetByID(ctx context.Context, id uint) (*model.Branch, error) {
	return getByID[model.Branch](ctx, r.db, id)
}

func (r *branchRepo) GetForUpdate(ctx context.Context, id uint) (*model.Branch, error) {
	return lockByID[model.Branch](ctx, r.db, id)
}

func (r *branchRepo) GetByName(ctx context.Context, name string) (*model.Branch, error) {
	var branch model.Branch
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&branch).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepo) List(ctx context.Context, filter BranchFilter) ([]model.Branch, error) {
	var branches []model.Branch
	db := r.db.WithContext(ctx)
	if filter.Province != "" {
		db = db.Where("province = ?", filter.Province)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("name ILIKE ? OR university ILIKE ?", like, like)
	}
	err := db.Order("name ASC").Find(&branches).Error
	return branches, err
}

func (r *branchRepo) Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error {
	return updateColumns[model.Branch](ctx, r.db, id, version, columns)
}

func (r *branchRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Branch](ctx, r.db, id)
}
