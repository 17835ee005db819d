package store

import (
	"errors"
	"fmt"
)

// Kind classifies a persistence failure so callers never inspect driver codes.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	KindNotFound
	KindConstraintViolation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConstraintViolation:
		return "constraint_violation"
	default:
		return "unknown"
	}
}

// Constraint names the rule behind a KindConstraintViolation.
type Constraint string

// Constraint types reported by the store.
const (
	ConstraintUnique     Constraint = "unique"
	ConstraintForeignKey Constraint = "foreign_key"
	ConstraintCheck      Constraint = "check"
	ConstraintNotNull    Constraint = "not_null"
)

// Error is the typed result of a failed store operation.
type Error struct {
	Kind       Kind
	Constraint Constraint // set when Kind is KindConstraintViolation
	Target     string     // table.column the constraint applies to, when known
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, and on Constraint when the target names one.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Constraint == "" || t.Constraint == e.Constraint
}

// WithMessage returns a copy with a different message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Constraint: e.Constraint, Target: e.Target, Message: msg, Err: e.Err}
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Constraint: e.Constraint, Target: e.Target, Message: e.Message, Err: err}
}

// Sentinel errors for errors.Is.
var (
	ErrNotFound = &Error{
		Kind:    KindNotFound,
		Message: "resource not found",
	}

	ErrConstraintViolation = &Error{
		Kind:    KindConstraintViolation,
		Message: "constraint violation",
	}

	ErrAlreadyExists = &Error{
		Kind:       KindConstraintViolation,
		Constraint: ConstraintUnique,
		Message:    "resource already exists",
	}

	ErrForeignKey = &Error{
		Kind:       KindConstraintViolation,
		Constraint: ConstraintForeignKey,
		Message:    "referenced resource does not exist",
	}
)

// Unknown wraps an unclassified driver error.
func Unknown(op string, err error) *Error {
	return &Error{Kind: KindUnknown, Message: op, Err: err}
}

// KindOf reports the kind of err. Errors that are not *Error are KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ConstraintTarget returns the table.column of a constraint violation, if known.
func ConstraintTarget(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Target
	}
	return ""
}
