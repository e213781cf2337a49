package repository

import (
	"context"

	"gorm.io/gorm"

	"natesa/backend/internal/model"
)

// NewsFilter narrows a news listing.
type NewsFilter struct {
	BranchID *uint
	AuthorID *uint
}

// NewsRepository news data access
type NewsRepository interface {
	Create(ctx context.Context, news *model.News) error
	GetByID(ctx context.Context, id uint) (*model.News, error)
	GetForUpdate(ctx context.Context, id uint) (*model.News, error)
	List(ctx context.Context, filter NewsFilter, offset, limit int) ([]model.News, int64, error)
	Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type newsRepo struct {
	db *gorm.DB
}

// NewNewsRepo creates a NewsRepository
func NewNewsRepo(db *gorm.DB) NewsRepository {
	return &newsRepo{db: db}
}

func (r *newsRepo) Create(ctx context.Context, news *model.News) error {
	return translate(r.db.WithContext(ctx).Omit("Branch", "Author").Create(news).Error)
}

func (r *newsRepo) GetByID(ctx context.Context, id uint) (*model.News, error) {
	return getByID[model.News](ctx, r.db, id)
}

func (r *newsRepo) GetForUpdate(ctx context.Context, id uint) (*model.News, error) {
	return lockByID[model.News](ctx, r.db, id)
}

func (r *newsRepo) List(ctx context.Context, filter NewsFilter, offset, limit int) ([]model.News, int64, error) {
	var posts []model.News
	var total int64

	db := r.db.WithContext(ctx).Model(&model.News{})
	if filter.BranchID != nil {
		db = db.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.AuthorID != nil {
		db = db.Where("author_id = ?", *filter.AuthorID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(db, offset, limit).
		Order("publish_date DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *newsRepo) Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error {
	return updateColumns[model.News](ctx, r.db, id, version, columns)
}

func (r *newsRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.News](ctx, r.db, id)
}
