package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "natesa/backend/pkg/errors"
)

// Unique constraint names declared by the schema.
const (
	ConstraintUserEmail    = "uq_users_email"
	ConstraintBranchName   = "uq_branches_name"
	ConstraintAlumniUserID = "uq_alumni_user_id"
)

// Shared helpers for the id-keyed tables. Each entity repository delegates
// its locking, partial update and delete to these.

func getByID[T any](ctx context.Context, db *gorm.DB, id uint, preloads ...string) (*T, error) {
	var row T
	q := db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// lockByID reads a row with SELECT ... FOR UPDATE. Only meaningful inside a transaction.
func lockByID[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var row T
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// updateColumns writes only the given columns and bumps version. The row
// must still carry the version the caller read.
func updateColumns[T any](ctx context.Context, db *gorm.DB, id uint, version int, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}
	updates := make(map[string]interface{}, len(columns)+1)
	for k, v := range columns {
		updates[k] = v
	}
	updates["version"] = version + 1

	var model T
	result := db.WithContext(ctx).
		Model(&model).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) error {
	var model T
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// paginate applies offset/limit; limit <= 0 returns every row.
func paginate(q *gorm.DB, offset, limit int) *gorm.DB {
	if limit <= 0 {
		return q
	}
	return q.Offset(offset).Limit(limit)
}
