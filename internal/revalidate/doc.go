// Package revalidate decides which cached renders a content write makes stale.
//
// Compute maps a Mutation (entity kind, operation, before/after snapshots) to a
// KeySet of paths and tags. Nuclear returns the site-wide set used by manual
// revalidation. Apply pushes a KeySet through an Invalidator, continuing past
// failures.
//
// Computing keys has no side effects; the write and the invalidation are two
// separate steps owned by the caller.
package revalidate
