package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every entity repository.
type Repository struct {
	User   UserRepository
	Branch BranchRepository
	Alumni AlumniRepository
	Event  EventRepository
	News   NewsRepository

	db *gorm.DB
}

// NewRepository builds the aggregate on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:   NewUserRepo(db),
		Branch: NewBranchRepo(db),
		Alumni: NewAlumniRepo(db),
		Event:  NewEventRepo(db),
		News:   NewNewsRepo(db),
		db:     db,
	}
}

// WithTx returns a Repository whose repositories all run on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn inside one database transaction. fn receives a
// Repository bound to the transaction; a returned error rolls back.
// A Repository assembled without a connection runs fn directly.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
