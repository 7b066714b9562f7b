package store

import (
	"context"
	"fmt"

	"github.com/benote/benote-core/internal/apperrors"
)

// Page is one page of a listing. Pages are 1-based.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	Total      int64 `json:"total"`
}

// Paginate returns page number page of size rows matching the scopes.
// A page past the end has no items but still reports the totals.
func Paginate[T any](ctx context.Context, s *Store, page, size int, scopes ...Scope) (Page[T], error) {
	if size < 1 {
		return Page[T]{}, apperrors.Validation("size", "must be positive")
	}
	if page < 1 {
		page = 1
	}

	var model T
	var total int64
	if err := s.db.WithContext(ctx).Model(&model).Scopes(scopes...).Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count page: %w", err)
	}

	items := make([]T, 0, size)
	err := s.db.WithContext(ctx).
		Scopes(scopes...).
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error
	if err != nil {
		return Page[T]{}, fmt.Errorf("load page: %w", err)
	}

	return Page[T]{
		Items:      items,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
		Page:       page,
		Total:      total,
	}, nil
}
