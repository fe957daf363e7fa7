package apperr

import (
	"fmt"
	"github.com/pkg/errors"
	"net/http"
)

type Kind string

const (
	InvalidArgument Kind = "invalidparameter"
	InvalidGrade    Kind = "invalidgrade"
	NotFound        Kind = "notfound"
	DuplicateKey    Kind = "duplicatekey"
)

// Error is the single error type returned by the gradebook engine. Callers
// branch on Kind; Debug carries extra context for logs and never changes the
// kind.
type Error struct {
	Kind    Kind
	Message string
	Debug   string
	cause   error
}

func (e *Error) Error() string {
	if e.Debug != "" {
		return e.Message + " [Debug: " + e.Debug + "]"
	}
	return e.Message
}

func (e *Error) Cause() error { return e.cause }

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, message, debug string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Debug:   debug,
		cause:   errors.New(string(kind)),
	}
}

// Param reports a malformed or out-of-range input named param.
func Param(param, debug string) *Error {
	return newError(InvalidArgument, "Invalid parameter: "+param+".", debug)
}

// Grade reports a score outside [0,100] or one that is not a number.
func Grade(value interface{}, debug string) *Error {
	return newError(InvalidGrade, fmt.Sprintf("Invalid grade: %v. Grade must be between 0 and 100.", value), debug)
}

func StudentNotFound(id int) *Error {
	return newError(NotFound, fmt.Sprintf("Student with ID %d not found.", id), "")
}

func Missing(what string, key interface{}) *Error {
	return newError(NotFound, fmt.Sprintf("%s %v not found.", what, key), "")
}

func Duplicate(what string, key interface{}) *Error {
	return newError(DuplicateKey, fmt.Sprintf("%s %v already exists.", what, key), "")
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// did not originate in the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error onto the status code a handler should answer with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case InvalidArgument:
		return http.StatusBadRequest
	case InvalidGrade:
		return http.StatusUnprocessableEntity
	case NotFound:
		return http.StatusNotFound
	case DuplicateKey:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
