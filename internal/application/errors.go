package application

import (
	"github.com/cockroachdb/errors"

	"github.com/oksasatya/jobboard-api/internal/domain/repository"
)

// Failure kinds surfaced to callers. Match with errors.Is from
// github.com/cockroachdb/errors; the text of every kind except
// ErrStoreFailure is safe to show to end users.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("resource conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrStoreFailure    = errors.New("store failure")
)

func invalidArgument(msg string) error { return errors.Mark(errors.New(msg), ErrInvalidArgument) }
func notFound(msg string) error        { return errors.Mark(errors.New(msg), ErrNotFound) }
func conflict(msg string) error        { return errors.Mark(errors.New(msg), ErrConflict) }
func forbidden(msg string) error       { return errors.Mark(errors.New(msg), ErrForbidden) }
func unauthorized(msg string) error    { return errors.Mark(errors.New(msg), ErrUnauthorized) }

// storeFailure keeps the driver error for logs and marks it as a store failure.
func storeFailure(err error, op string) error {
	return errors.Mark(errors.WithDetail(errors.Wrap(err, op), "storage operation failed"), ErrStoreFailure)
}

// lookupFailure maps a repository lookup error: absence becomes NotFound with msg,
// anything else is a store failure.
func lookupFailure(err error, msg, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msg)
	}
	return storeFailure(err, op)
}

// PublicMessage returns the text that may be shown to end users for err.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStoreFailure):
		return "internal server error"
	case errors.IsAny(err, ErrInvalidArgument, ErrNotFound, ErrConflict, ErrForbidden, ErrUnauthorized):
		return err.Error()
	default:
		return "internal server error"
	}
}
