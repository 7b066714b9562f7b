package models

import (
	"strings"

	"github.com/benote/benote-core/internal/apperrors"
)

// Entity is implemented by every persisted model. The store relies on
// TableName to find the model in the relationship graph.
type Entity interface {
	TableName() string
	Validate() error
}

// Defaulter fills optional fields before validation on create.
type Defaulter interface {
	ApplyDefaults()
}

// Normalizer canonicalises fields before validation on create and update.
type Normalizer interface {
	Normalize()
}

// Tree is implemented by self-referencing entities. A parent must carry the
// same value in the TreeScope column as its children.
type Tree interface {
	TreeScope() string
}

// Uniquer lists the column sets that must be unique across the table.
type Uniquer interface {
	UniqueKeys() [][]string
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.Required(field)
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return apperrors.Validation(field, "must be one of "+strings.Join(allowed, ", "))
}

func maxLen(field, value string, n int) error {
	if len(value) > n {
		return apperrors.Validation(field, "is too long")
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
