package store

import (
	"context"
	"fmt"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/relations"
	"github.com/google/uuid"
)

type deleteOptions struct {
	purge map[string]bool
	// rows already scheduled for deletion, per table
	seen map[string]map[uuid.UUID]bool
}

type DeleteOption func(*deleteOptions)

// Purge lets the delete remove rows of the given child tables even when the
// relation policy is restrict.
func Purge(tables ...string) DeleteOption {
	return func(o *deleteOptions) {
		for _, t := range tables {
			o.purge[t] = true
		}
	}
}

// Delete removes the row and everything hanging off it. Children go first,
// all inside one transaction, so any failure leaves the data untouched.
func (s *Store) Delete(ctx context.Context, e models.Entity, id uuid.UUID, opts ...DeleteOption) error {
	o := deleteOptions{purge: make(map[string]bool), seen: make(map[string]map[uuid.UUID]bool)}
	for _, opt := range opts {
		opt(&o)
	}
	table := e.TableName()
	if _, ok := s.graph.Node(table); !ok {
		return fmt.Errorf("delete %s: table not registered", table)
	}

	return s.Transaction(ctx, func(tx *Store) error {
		n, err := tx.Count(ctx, e, ByID(id))
		if err != nil {
			return err
		}
		if n == 0 {
			return apperrors.NotFound(table, id)
		}
		return tx.deleteRows(ctx, table, []uuid.UUID{id}, o)
	})
}

func (s *Store) deleteRows(ctx context.Context, table string, ids []uuid.UUID, o deleteOptions) error {
	ids = o.claim(table, ids)
	if len(ids) == 0 {
		return nil
	}
	node, _ := s.graph.Node(table)
	edges := s.graph.Children(table)

	for _, edge := range edges {
		if s.policy(edge, o) != relations.Restrict {
			continue
		}
		child, _ := s.graph.Node(edge.Child)
		var n int64
		err := s.db.WithContext(ctx).Model(child.New()).Where(edge.Column+" IN ?", ids).Count(&n).Error
		if err != nil {
			return fmt.Errorf("check %s: %w", edge, err)
		}
		if n > 0 {
			return apperrors.Conflict(table, edge.Child, n)
		}
	}

	for _, edge := range edges {
		child, _ := s.graph.Node(edge.Child)
		switch s.policy(edge, o) {
		case relations.SetNull:
			err := s.db.WithContext(ctx).Model(child.New()).Where(edge.Column+" IN ?", ids).Update(edge.Column, nil).Error
			if err != nil {
				return fmt.Errorf("detach %s: %w", edge, err)
			}
		case relations.Cascade:
			var childIDs []uuid.UUID
			err := s.db.WithContext(ctx).Model(child.New()).Where(edge.Column+" IN ?", ids).Pluck("id", &childIDs).Error
			if err != nil {
				return fmt.Errorf("collect %s: %w", edge, err)
			}
			if err := s.deleteRows(ctx, edge.Child, childIDs, o); err != nil {
				return err
			}
		}
	}

	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(node.New()).Error; err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (s *Store) policy(edge relations.Edge, o deleteOptions) relations.Policy {
	if edge.Policy == relations.Restrict && o.purge[edge.Child] {
		return relations.Cascade
	}
	return edge.Policy
}

// claim returns the ids of table not already being deleted and marks them,
// so parent cycles terminate.
func (o deleteOptions) claim(table string, ids []uuid.UUID) []uuid.UUID {
	seen := o.seen[table]
	if seen == nil {
		seen = make(map[uuid.UUID]bool, len(ids))
		o.seen[table] = seen
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
