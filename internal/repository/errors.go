package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes translated by this package.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ErrNotFound is returned by writes whose target row no longer exists.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicateKey reports a unique constraint rejected the write.
type ErrDuplicateKey struct {
	Constraint string
}

func (e *ErrDuplicateKey) Error() string {
	return fmt.Sprintf("duplicate key violates unique constraint %q", e.Constraint)
}

// ErrForeignKey reports a foreign key constraint rejected the write.
type ErrForeignKey struct {
	Constraint string
}

func (e *ErrForeignKey) Error() string {
	return fmt.Sprintf("write violates foreign key constraint %q", e.Constraint)
}

// translate maps driver constraint errors onto the package error types.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ErrDuplicateKey{Constraint: pgErr.ConstraintName}
		case pgForeignKeyViolation:
			return &ErrForeignKey{Constraint: pgErr.ConstraintName}
		}
	}
	return err
}

// IsDuplicate reports whether err is a unique violation on constraint.
// An empty constraint matches any unique violation.
func IsDuplicate(err error, constraint string) bool {
	var dup *ErrDuplicateKey
	if !errors.As(err, &dup) {
		return false
	}
	return constraint == "" || dup.Constraint == constraint
}

// IsForeignKey reports whether err is a foreign key violation.
func IsForeignKey(err error) bool {
	var fk *ErrForeignKey
	return errors.As(err, &fk)
}
