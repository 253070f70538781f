// ABOUTME: Shared create/update/delete flow for every content entity
// ABOUTME: Store write first, then settle (invalidate and audit) on success only

package content

import (
	"context"
	"fmt"

	"github.com/2389/folio/internal/revalidate"
)

// entityOps binds one entity's store methods to the shared write flow.
type entityOps[T any] struct {
	kind   revalidate.EntityKind
	get    func(context.Context, string) (*T, error)
	create func(context.Context, *T) error
	update func(context.Context, *T) error
	remove func(context.Context, string) error
	id     func(*T) string
}

func (o entityOps[T]) doCreate(ctx context.Context, s *Service, row *T) (Result[T], error) {
	if err := o.create(ctx, row); err != nil {
		return Result[T]{}, fmt.Errorf("creating %s: %w", o.kind, err)
	}
	return settle(ctx, s, o.kind, revalidate.OpCreate, o.id(row), nil, row), nil
}

// doUpdate loads the current row, lets change build the replacement from a copy,
// and writes it. before stays untouched for key computation.
func (o entityOps[T]) doUpdate(ctx context.Context, s *Service, lookup func(context.Context, string) (*T, error), key string, change func(before *T) (*T, error)) (Result[T], error) {
	before, err := lookup(ctx, key)
	if err != nil {
		return Result[T]{}, fmt.Errorf("loading %s %s: %w", o.kind, key, err)
	}

	after, err := change(before)
	if err != nil {
		return Result[T]{}, err
	}

	if err := o.update(ctx, after); err != nil {
		return Result[T]{}, fmt.Errorf("updating %s %s: %w", o.kind, key, err)
	}
	return settle(ctx, s, o.kind, revalidate.OpUpdate, o.id(after), before, after), nil
}

func (o entityOps[T]) doDelete(ctx context.Context, s *Service, id string) (Result[T], error) {
	before, err := o.get(ctx, id)
	if err != nil {
		return Result[T]{}, fmt.Errorf("loading %s %s: %w", o.kind, id, err)
	}

	if err := o.remove(ctx, id); err != nil {
		return Result[T]{}, fmt.Errorf("deleting %s %s: %w", o.kind, id, err)
	}
	return settle(ctx, s, o.kind, revalidate.OpDelete, id, before, nil), nil
}
