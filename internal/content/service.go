// ABOUTME: Content service: validated admin writes followed by cache invalidation
// ABOUTME: Reports invalidation failures alongside the saved data instead of failing

package content

import (
	"context"
	"log/slog"

	"github.com/2389/folio/internal/auth"
	"github.com/2389/folio/internal/revalidate"
	"github.com/2389/folio/internal/store"
)

// Result is the outcome of a write that reached the store. Data is the saved
// row (the removed row for deletes). InvalidationErr is set when the write
// succeeded but some cache keys could not be invalidated; the write is not
// rolled back.
type Result[T any] struct {
	Data            *T
	Invalidated     revalidate.KeySet
	InvalidationErr error
}

// Service performs admin content writes.
type Service struct {
	store  store.Store
	cache  revalidate.Invalidator
	logger *slog.Logger
}

// New creates a content service writing to st and invalidating through cache.
func New(st store.Store, cache revalidate.Invalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = revalidate.Discard
	}
	return &Service{
		store:  st,
		cache:  cache,
		logger: logger.With("component", "content"),
	}
}

// Store returns the underlying store for reads.
func (s *Service) Store() store.Store {
	return s.store
}

// settle runs the invalidation pass for a completed write and records it in the
// audit log. It never fails the write.
func settle[T any](ctx context.Context, s *Service, kind revalidate.EntityKind, op revalidate.Op, id string, before, after *T) Result[T] {
	m := revalidate.Mutation{Kind: kind, Op: op}
	if before != nil {
		m.Before = before
	}
	if after != nil {
		m.After = after
	}

	keys := revalidate.Compute(m)
	invErr := revalidate.Apply(ctx, s.cache, keys)

	logger := s.logger.With("entity", kind, "op", op, "id", id)
	if invErr != nil {
		logger.Warn("content saved but cache invalidation failed", "error", invErr, "keys", keys.Len())
	} else {
		logger.Debug("content saved", "keys", keys.Len())
	}

	s.audit(ctx, kind, op, id, keys, invErr)

	data := after
	if data == nil {
		data = before
	}
	return Result[T]{Data: data, Invalidated: keys, InvalidationErr: invErr}
}

func (s *Service) audit(ctx context.Context, kind revalidate.EntityKind, op revalidate.Op, id string, keys revalidate.KeySet, invErr error) {
	detail := map[string]any{"invalidated": keys.Strings()}
	if invErr != nil {
		detail["warning"] = invErr.Error()
	}

	entry := &store.AuditEntry{
		Actor:      auth.Actor(ctx),
		Action:     auditAction(op),
		TargetType: string(kind),
		TargetID:   id,
		Detail:     detail,
	}
	if err := s.store.AppendAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to append audit log", "error", err, "target", entry.TargetType+"/"+id)
	}
}

func auditAction(op revalidate.Op) store.AuditAction {
	switch op {
	case revalidate.OpCreate:
		return store.AuditCreate
	case revalidate.OpDelete:
		return store.AuditDelete
	default:
		return store.AuditUpdate
	}
}

// RevalidateAll invalidates the whole site and records who asked.
func (s *Service) RevalidateAll(ctx context.Context) (revalidate.KeySet, error) {
	keys := revalidate.Nuclear()
	err := revalidate.Apply(ctx, s.cache, keys)
	if err != nil {
		s.logger.Warn("nuclear revalidation had failures", "error", err)
	} else {
		s.logger.Info("revalidated all content", "keys", keys.Len())
	}

	detail := map[string]any{"invalidated": keys.Len()}
	if err != nil {
		detail["warning"] = err.Error()
	}
	if auditErr := s.store.AppendAuditLog(ctx, &store.AuditEntry{
		Actor:      auth.Actor(ctx),
		Action:     store.AuditRevalidateAll,
		TargetType: "site",
		TargetID:   "*",
		Detail:     detail,
	}); auditErr != nil {
		s.logger.Warn("failed to append audit log", "error", auditErr)
	}
	return keys, err
}
