package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgerrors "natesa/backend/pkg/errors"
)

// ── business errors ──

var (
	ErrUserNotFound   = pkgerrors.NotFound("user not found")
	ErrBranchNotFound = pkgerrors.NotFound("branch not found")
	ErrAlumniNotFound = pkgerrors.NotFound("alumni record not found")
	ErrEventNotFound  = pkgerrors.NotFound("event not found")
	ErrNewsNotFound   = pkgerrors.NotFound("news post not found")

	ErrEmailExists      = pkgerrors.Conflict("email is already registered")
	ErrBranchNameExists = pkgerrors.Conflict("branch name already exists")
	ErrAlumniExists     = pkgerrors.Conflict("user already has an alumni record")

	ErrBranchHasUsers = pkgerrors.Dependency("branch still has users assigned")
	ErrRecordInUse    = pkgerrors.Dependency("record is still referenced by other records")

	ErrReferenceMissing = pkgerrors.Validation("a referenced record no longer exists")

	ErrUserSelfDelete = pkgerrors.Forbidden("you cannot delete your own account")

	ErrInvalidCredentials = pkgerrors.Unauthenticated("invalid credentials")
	ErrAccountInactive    = pkgerrors.Unauthenticated("account is not active")
	ErrInvalidToken       = pkgerrors.Unauthenticated("invalid or expired token")
)

// storeFailure logs and wraps errors that are not already typed. Typed
// errors pass through unchanged.
func storeFailure(logger *zap.Logger, op string, err error, fields ...zap.Field) error {
	if err == nil {
		return nil
	}
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		return err
	}
	logger.Error(op+" failed", append(fields, zap.Error(err))...)
	return pkgerrors.Store(op, err)
}

// notFound maps gorm's missing-row error to sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// ── reference checks ──

// refCheck gathers violations for foreign keys that do not resolve.
type refCheck struct {
	violations []pkgerrors.Violation
}

// check records a violation when lookup reported a missing row and
// returns any other lookup error.
func (r *refCheck) check(field, what string, lookupErr error) error {
	if lookupErr == nil {
		return nil
	}
	if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		r.violations = append(r.violations, pkgerrors.Violation{
			Field:  field,
			Reason: "references a " + what + " that does not exist",
		})
		return nil
	}
	return lookupErr
}

func (r *refCheck) err() error { return pkgerrors.FromViolations(r.violations) }

// found drops the record from a repository lookup.
func found(_ interface{}, err error) error { return err }
