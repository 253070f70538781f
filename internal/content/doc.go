// Package content implements the admin write actions for site content.
//
// Every action follows the same flow:
//
//  1. Validate the input (go-playground/validator struct tags). A failure
//     returns a *ValidationError and touches nothing.
//  2. Resolve the slug for projects, services and pages. A pinned slug wins;
//     on update an empty slug keeps the stored one; otherwise the slug is
//     derived from the title with slug.Make.
//  3. Write through store.Store. Store errors are returned wrapped and
//     nothing is invalidated; store.ErrNotFound survives errors.Is.
//  4. Compute the cache keys for the mutation with revalidate.Compute and
//     apply them to the page cache.
//  5. Append an audit entry naming the actor from the request context.
//
// A failed invalidation does not fail the write. It is logged at WARN and
// reported in Result.InvalidationErr so the HTTP layer can return a warning.
//
// Seed files (TOML) are imported through the same actions with Import, so
// seeded rows are validated, slugged and invalidated like admin writes.
package content
