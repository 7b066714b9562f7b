// Package store persists every entity through gorm. It validates fields,
// checks that referenced parents exist, enforces declared unique keys and
// applies the delete policies of the relationship graph inside a single
// transaction.
package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/relations"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Store struct {
	db      *gorm.DB
	graph   *relations.Graph
	schemas *sync.Map
}

func New(db *gorm.DB, graph *relations.Graph) *Store {
	return &Store{db: db, graph: graph, schemas: &sync.Map{}}
}

// DB returns the underlying handle bound to ctx. Inside Transaction it is the
// transaction handle.
func (s *Store) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) Graph() *relations.Graph {
	return s.graph
}

// Transaction runs fn with a store bound to a transaction. Nested calls use
// savepoints.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, graph: s.graph, schemas: s.schemas})
	})
}

// Create validates e, assigns a fresh id and inserts it.
func (s *Store) Create(ctx context.Context, e models.Entity) error {
	if d, ok := e.(models.Defaulter); ok {
		d.ApplyDefaults()
	}
	if n, ok := e.(models.Normalizer); ok {
		n.Normalize()
	}
	if err := e.Validate(); err != nil {
		return err
	}
	sch, err := s.schema(e)
	if err != nil {
		return err
	}

	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.checkReferences(ctx, e, sch); err != nil {
			return err
		}
		if err := tx.checkTree(ctx, e, sch, uuid.Nil); err != nil {
			return err
		}
		if err := tx.checkUnique(ctx, e, sch, uuid.Nil); err != nil {
			return err
		}
		if err := sch.PrioritizedPrimaryField.Set(ctx, reflect.ValueOf(e), uuid.New()); err != nil {
			return fmt.Errorf("assign id: %w", err)
		}
		if err := tx.db.WithContext(ctx).Create(e).Error; err != nil {
			return translate(err, e.TableName())
		}
		return nil
	})
}

// Get loads the row with the given id into dest.
func (s *Store) Get(ctx context.Context, dest models.Entity, id uuid.UUID) error {
	err := s.db.WithContext(ctx).First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(dest.TableName(), id)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", dest.TableName(), err)
	}
	return nil
}

// First loads the first row matching the scopes into dest.
func (s *Store) First(ctx context.Context, dest models.Entity, scopes ...Scope) error {
	err := s.db.WithContext(ctx).Scopes(scopes...).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(dest.TableName(), uuid.Nil)
	}
	if err != nil {
		return fmt.Errorf("find %s: %w", dest.TableName(), err)
	}
	return nil
}

// List fills dest, a pointer to a slice of models. No match yields an empty
// slice, not an error.
func (s *Store) List(ctx context.Context, dest interface{}, scopes ...Scope) error {
	if err := s.db.WithContext(ctx).Scopes(scopes...).Find(dest).Error; err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return nil
}

// Count returns the number of model rows matching the scopes.
func (s *Store) Count(ctx context.Context, model models.Entity, scopes ...Scope) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", model.TableName(), err)
	}
	return n, nil
}

// Update loads the row into e, calls apply to change the caller's fields,
// then validates and saves it. The id can not change.
func (s *Store) Update(ctx context.Context, e models.Entity, id uuid.UUID, apply func() error) error {
	sch, err := s.schema(e)
	if err != nil {
		return err
	}
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Get(ctx, e, id); err != nil {
			return err
		}
		if apply != nil {
			if err := apply(); err != nil {
				return err
			}
		}
		if got, _ := uuidOf(ctx, sch.PrioritizedPrimaryField, e); got != id {
			return apperrors.Validation("id", "is immutable")
		}
		if n, ok := e.(models.Normalizer); ok {
			n.Normalize()
		}
		if err := e.Validate(); err != nil {
			return err
		}
		if err := tx.checkReferences(ctx, e, sch); err != nil {
			return err
		}
		if err := tx.checkTree(ctx, e, sch, id); err != nil {
			return err
		}
		if err := tx.checkUnique(ctx, e, sch, id); err != nil {
			return err
		}
		if err := tx.db.WithContext(ctx).Save(e).Error; err != nil {
			return translate(err, e.TableName())
		}
		return nil
	})
}

func (s *Store) schema(e models.Entity) (*schema.Schema, error) {
	sch, err := schema.Parse(e, s.schemas, s.db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", e.TableName(), err)
	}
	return sch, nil
}

// checkReferences makes sure every belongs-to column points at a live parent.
func (s *Store) checkReferences(ctx context.Context, e models.Entity, sch *schema.Schema) error {
	for _, edge := range s.graph.Parents(e.TableName()) {
		field := sch.FieldsByDBName[edge.Column]
		if field == nil {
			continue
		}
		id, set := uuidOf(ctx, field, e)
		if !set {
			if edge.Optional {
				continue
			}
			return apperrors.Required(edge.Column)
		}
		parent, ok := s.graph.Node(edge.Parent)
		if !ok {
			return fmt.Errorf("relation %s: parent not registered", edge)
		}
		var n int64
		if err := s.db.WithContext(ctx).Model(parent.New()).Where("id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("check %s: %w", edge.Column, err)
		}
		if n == 0 {
			return apperrors.NotFound(edge.Parent, id)
		}
	}
	return nil
}

// checkTree validates self references: the parent must share the tree scope
// and, when self is set, must not descend from self.
func (s *Store) checkTree(ctx context.Context, e models.Entity, sch *schema.Schema, self uuid.UUID) error {
	for _, edge := range s.graph.Parents(e.TableName()) {
		if !edge.Self() {
			continue
		}
		field := sch.FieldsByDBName[edge.Column]
		if field == nil {
			continue
		}
		parentID, set := uuidOf(ctx, field, e)
		if !set {
			continue
		}
		model := func() *gorm.DB {
			return s.db.WithContext(ctx).Model(reflect.New(sch.ModelType).Interface())
		}

		if t, ok := e.(models.Tree); ok {
			col := t.TreeScope()
			scope := sch.FieldsByDBName[col]
			if scope == nil {
				return fmt.Errorf("tree scope %s.%s: no such column", e.TableName(), col)
			}
			v, _ := scope.ValueOf(ctx, reflect.ValueOf(e))
			var n int64
			if err := model().Where("id = ?", parentID).Where(col+" = ?", v).Count(&n).Error; err != nil {
				return fmt.Errorf("check %s: %w", edge.Column, err)
			}
			if n == 0 {
				return apperrors.Validation(edge.Column, "must share "+col+" with the parent")
			}
		}

		if self == uuid.Nil {
			continue
		}
		seen := make(map[uuid.UUID]bool)
		for cur := parentID; !seen[cur]; {
			if cur == self {
				return apperrors.Validation(edge.Column, "would create a cycle")
			}
			seen[cur] = true
			var next []uuid.NullUUID
			if err := model().Where("id = ?", cur).Pluck(edge.Column, &next).Error; err != nil {
				return fmt.Errorf("walk %s: %w", edge.Column, err)
			}
			if len(next) == 0 || !next[0].Valid {
				break
			}
			cur = next[0].UUID
		}
	}
	return nil
}

// checkUnique rejects rows colliding with another row on a declared unique
// key. Keys containing a null column never collide.
func (s *Store) checkUnique(ctx context.Context, e models.Entity, sch *schema.Schema, self uuid.UUID) error {
	u, ok := e.(models.Uniquer)
	if !ok {
		return nil
	}
	rv := reflect.ValueOf(e)
keys:
	for _, key := range u.UniqueKeys() {
		q := s.db.WithContext(ctx).Model(reflect.New(sch.ModelType).Interface())
		for _, col := range key {
			field := sch.FieldsByDBName[col]
			if field == nil {
				return fmt.Errorf("unique key %s.%s: no such column", e.TableName(), col)
			}
			v, zero := field.ValueOf(ctx, rv)
			if zero && field.FieldType.Kind() == reflect.Ptr {
				continue keys
			}
			q = q.Where(col+" = ?", v)
		}
		if self != uuid.Nil {
			q = q.Where("id <> ?", self)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return fmt.Errorf("check unique %s: %w", e.TableName(), err)
		}
		if n > 0 {
			return apperrors.Validation(strings.Join(key, ","), "already exists")
		}
	}
	return nil
}

func uuidOf(ctx context.Context, field *schema.Field, e models.Entity) (uuid.UUID, bool) {
	v, _ := field.ValueOf(ctx, reflect.ValueOf(e))
	switch id := v.(type) {
	case uuid.UUID:
		return id, id != uuid.Nil
	case *uuid.UUID:
		if id == nil {
			return uuid.Nil, false
		}
		return *id, *id != uuid.Nil
	}
	return uuid.Nil, false
}

// translate maps driver errors surfaced through TranslateError onto the
// error taxonomy. The pre-checks above catch the common cases; this is the
// backstop for concurrent writers.
func translate(err error, table string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Validation(table, "already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Validation(table, "references a missing record")
	default:
		return fmt.Errorf("write %s: %w", table, err)
	}
}
