// ABOUTME: Invalidator boundary and the Apply loop that drives it
// ABOUTME: Applies every key even after failures and joins the errors

package revalidate

import (
	"context"
	"errors"
	"fmt"
)

// Invalidator drops cached renders. pagecache.Cache implements it.
type Invalidator interface {
	InvalidatePath(ctx context.Context, path string, scope Scope) error
	InvalidateTag(ctx context.Context, tag string) error
}

// Apply invalidates every key in ks, in order. A failing key does not stop the
// rest; all failures are returned joined.
func Apply(ctx context.Context, inv Invalidator, ks KeySet) error {
	var errs []error
	for _, k := range ks.keys {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		var err error
		switch k.Kind {
		case KindPath:
			err = inv.InvalidatePath(ctx, k.Value, k.Scope)
		case KindTag:
			err = inv.InvalidateTag(ctx, k.Value)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("invalidating %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

// Discard is an Invalidator with nothing to drop, for writers that run
// without a page cache such as offline seed imports.
var Discard Invalidator = discard{}

type discard struct{}

func (discard) InvalidatePath(context.Context, string, Scope) error { return nil }
func (discard) InvalidateTag(context.Context, string) error         { return nil }
