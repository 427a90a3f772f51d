package apperror

import (
	"errors"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error is a domain error tagged with a Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind. Package-level sentinels are built with it.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// kindedError lets other packages classify their own error types.
type kindedError interface {
	ErrorKind() Kind
}

// sqlStateError is satisfied by *pgconn.PgError.
type sqlStateError interface {
	SQLState() string
}

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
)

// KindOf reports the kind of err. Untagged database constraint errors are
// classified by SQLSTATE; everything else is internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	var kinded kindedError
	if errors.As(err, &kinded) {
		return kinded.ErrorKind()
	}

	var stateErr sqlStateError
	if errors.As(err, &stateErr) {
		switch stateErr.SQLState() {
		case sqlStateUniqueViolation:
			return KindConflict
		case sqlStateForeignKeyViolation, sqlStateCheckViolation:
			return KindValidation
		}
	}

	return KindInternal
}

// MessageOf returns the message of the outermost tagged error, or "" when err
// carries no tag.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
