// Package validation checks candidate field sets before anything is persisted.
// It reports every violation at once and never mutates its input.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"natesa/backend/internal/model"
	pkgerrors "natesa/backend/pkg/errors"
	"natesa/backend/pkg/patch"
)

// PasswordSymbols punctuation accepted as the required password symbol.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

// PasswordMinLength minimum password length.
const PasswordMinLength = 8

var (
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	lowerPattern  = regexp.MustCompile(`[a-z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	symbolPattern = regexp.MustCompile(`[` + regexp.QuoteMeta(PasswordSymbols) + `]`)
)

// PasswordProblem returns why password fails the strength policy, or "".
func PasswordProblem(password string) string {
	switch {
	case utf8.RuneCountInString(password) < PasswordMinLength:
		return fmt.Sprintf("must be at least %d characters long", PasswordMinLength)
	case !upperPattern.MatchString(password):
		return "must contain at least one uppercase letter"
	case !lowerPattern.MatchString(password):
		return "must contain at least one lowercase letter"
	case !digitPattern.MatchString(password):
		return "must contain at least one digit"
	case !symbolPattern.MatchString(password):
		return "must contain at least one of " + PasswordSymbols
	}
	return ""
}

// Engine field-level rule checker shared by every entity.
type Engine struct {
	v *validator.Validate
}

// New builds an Engine with the domain rules registered.
func New() *Engine {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return PasswordProblem(fl.Field().String()) == ""
	})
	mustRegister(v, "role", oneOf(model.Roles))
	mustRegister(v, "user_status", oneOf(model.UserStatuses))
	mustRegister(v, "alumni_status", oneOf(model.AlumniStatuses))
	mustRegister(v, "province", oneOf(model.Provinces))

	return &Engine{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

func oneOf(set []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return model.IsOneOf(fl.Field().String(), set)
	}
}

// Struct validates a create payload and returns every violation.
func (e *Engine) Struct(req any) []pkgerrors.Violation {
	return e.collect("", e.v.Struct(req))
}

// Check validates a create payload and folds violations into one error.
func (e *Engine) Check(req any) error {
	return pkgerrors.FromViolations(e.Struct(req))
}

func (e *Engine) collect(field string, err error) []pkgerrors.Violation {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []pkgerrors.Violation{{Field: field, Reason: err.Error()}}
	}
	out := make([]pkgerrors.Violation, 0, len(verrs))
	for _, fe := range verrs {
		name := field
		if name == "" {
			name = fe.Field()
		}
		out = append(out, pkgerrors.Violation{Field: name, Reason: reason(fe)})
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "password":
		if s, ok := fe.Value().(string); ok {
			if p := PasswordProblem(s); p != "" {
				return p
			}
		}
		return "does not meet the password policy"
	case "role":
		return "must be one of: " + strings.Join(model.Roles, ", ")
	case "user_status":
		return "must be one of: " + strings.Join(model.UserStatuses, ", ")
	case "alumni_status":
		return "must be one of: " + strings.Join(model.AlumniStatuses, ", ")
	case "province":
		return "must be one of: " + strings.Join(model.Provinces, ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	default:
		return "failed rule " + fe.Tag()
	}
}

// ── sparse checks ──

// sparse accumulates violations for the supplied fields of a patch.
type sparse struct {
	e   *Engine
	out []pkgerrors.Violation
}

func (e *Engine) sparse() *sparse { return &sparse{e: e} }

// check validates f against tag when it was supplied. Null is only accepted
// for nullable columns.
func check[T any](s *sparse, name string, f patch.Field[T], tag string, nullable bool) {
	if !f.Present() {
		return
	}
	if f.IsNull() {
		if !nullable {
			s.out = append(s.out, pkgerrors.Violation{Field: name, Reason: "must not be null"})
		}
		return
	}
	if tag == "" {
		return
	}
	v, _ := f.Get()
	s.out = append(s.out, s.e.collect(name, s.e.v.Var(v, tag))...)
}

func (s *sparse) err() error { return pkgerrors.FromViolations(s.out) }
