package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"natesa/backend/internal/policy"
	"natesa/backend/internal/service"
	pkgerrors "natesa/backend/pkg/errors"
	"natesa/backend/pkg/response"
)

// Generic codes, one per error kind.
const (
	codeValidation      = 10001
	codeUnauthenticated = 10002
	codeForbidden       = 10003
	codeConflict        = 10006
	codeDependency      = 10007
	codeConfiguration   = 10008
	codeNotFound        = 10009
)

// errorCodes module specific codes; the first matching entry wins.
var errorCodes = []struct {
	err  error
	code int
}{
	// auth 11xxx
	{service.ErrInvalidCredentials, 11001},
	{service.ErrAccountInactive, 11002},
	{service.ErrInvalidToken, 11003},
	// policy 12xxx
	{policy.ErrRoleGrant, 12001},
	{policy.ErrPrivilegedField, 12002},
	{policy.ErrOutsideBranch, 12003},
	{policy.ErrNotSelf, 12004},
	{policy.ErrBranchUnassigned, 12005},
	// users 20xxx
	{service.ErrUserNotFound, 20001},
	{service.ErrEmailExists, 20002},
	{service.ErrUserSelfDelete, 20003},
	// branches 21xxx
	{service.ErrBranchNotFound, 21001},
	{service.ErrBranchNameExists, 21002},
	{service.ErrBranchHasUsers, 21003},
	// alumni 22xxx
	{service.ErrAlumniNotFound, 22001},
	{service.ErrAlumniExists, 22002},
	// events / news
	{service.ErrEventNotFound, 23001},
	{service.ErrNewsNotFound, 24001},
	// shared
	{service.ErrRecordInUse, codeDependency},
	{service.ErrReferenceMissing, codeValidation},
	{pkgerrors.ErrOptimisticLock, 10010},
}

var kindStatus = map[pkgerrors.Kind]struct {
	status int
	code   int
}{
	pkgerrors.KindValidation:      {http.StatusBadRequest, codeValidation},
	pkgerrors.KindConflict:        {http.StatusBadRequest, codeConflict},
	pkgerrors.KindNotFound:        {http.StatusNotFound, codeNotFound},
	pkgerrors.KindAuthorization:   {http.StatusForbidden, codeForbidden},
	pkgerrors.KindDependency:      {http.StatusBadRequest, codeDependency},
	pkgerrors.KindConfiguration:   {http.StatusBadRequest, codeConfiguration},
	pkgerrors.KindUnauthenticated: {http.StatusUnauthorized, codeUnauthenticated},
}

// respondError translates a service error into the JSON envelope.
func respondError(c *gin.Context, err error) {
	kind := pkgerrors.KindOf(err)
	mapped, ok := kindStatus[kind]
	if !ok {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	code := mapped.code
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			code = e.code
			break
		}
	}

	if v := pkgerrors.ViolationsOf(err); len(v) > 0 {
		response.ErrorWithDetails(c, mapped.status, code, pkgerrors.MessageOf(err), v)
		return
	}
	response.Error(c, mapped.status, code, pkgerrors.MessageOf(err))
}

// badBody reports a request body or query that could not be decoded.
func badBody(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, "invalid request", err.Error())
}
