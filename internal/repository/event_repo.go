package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"natesa/backend/internal/model"
)

// EventFilter narrows an event listing.
type EventFilter struct {
	BranchID  *uint
	EventType string
	From      *time.Time
}

// EventRepository event data access
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id uint) (*model.Event, error)
	GetForUpdate(ctx context.Context, id uint) (*model.Event, error)
	List(ctx context.Context, filter EventFilter, offset, limit int) ([]model.Event, int64, error)
	Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an EventRepository
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return translate(r.db.WithContext(ctx).Omit("Branch", "Creator").Create(event).Error)
}

func (r *eventRepo) GetByID(ctx context.Context, id uint) (*model.Event, error) {
	return getByID[model.Event](ctx, r.db, id)
}

func (r *eventRepo) GetForUpdate(ctx context.Context, id uint) (*model.Event, error) {
	return lockByID[model.Event](ctx, r.db, id)
}

func (r *eventRepo) List(ctx context.Context, filter EventFilter, offset, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Event{})
	if filter.BranchID != nil {
		db = db.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.EventType != "" {
		db = db.Where("event_type = ?", filter.EventType)
	}
	if filter.From != nil {
		db = db.Where("date >= ?", *filter.From)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(db, offset, limit).
		Order("date ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepo) Update(ctx context.Context, id uint, version int, columns map[string]interface{}) error {
	return updateColumns[model.Event](ctx, r.db, id, version, columns)
}

func (r *eventRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Event](ctx, r.db, id)
}
