// Package apperrors holds the error taxonomy shared by the store and the
// services. Every typed error matches one sentinel through errors.Is so the
// caller layer can map it without type switches.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrForbidden  = errors.New("permission denied")
	ErrConflict   = errors.New("conflict")
)

// ValidationError reports a missing field, an invalid enum value or a
// uniqueness violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	if e.ID == uuid.Nil {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// ConflictError is returned when a delete hits a relation whose policy is
// restrict and live children exist.
type ConflictError struct {
	Entity   string
	Relation string
	Count    int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot delete %s: %d dependent %s", e.Entity, e.Count, e.Relation)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func Required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func NotFound(entity string, id uuid.UUID) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

func Conflict(entity, relation string, count int64) error {
	return &ConflictError{Entity: entity, Relation: relation, Count: count}
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// HTTPStatus maps an error to the status code the API layer should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
