// Package store provides persistent storage for site content using SQLite.
//
// # Architecture
//
// Each content entity has its own interface (ProjectStore, ServiceStore,
// TestimonialStore, FAQStore, ProcessStepStore, PageStore, FeedbackStore)
// plus AuditStore for the mutation log. Store embeds all of them.
// SQLiteStore and MockStore both implement Store.
//
// # Ordering and filters
//
// Every list is ordered by display_order ascending; rows with equal
// display_order come back in insertion order. ListFilter fields that an
// entity has no column for are ignored, so a Category filter on projects
// returns all projects. Tags filters match rows containing every tag.
//
// Slugs are not unique. GetProjectBySlug and friends return the first
// matching row in list order.
//
// # SQLite Configuration
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA busy_timeout=5000;
//
// Timestamps are stored as RFC3339 text and string arrays as JSON text.
// Column additions are applied by runMigrations and are idempotent.
//
// # Errors
//
//   - ErrNotFound: the ID does not exist (get, update, delete)
//   - ErrConflict: create with an ID that is already taken
//
// # Testing
//
// Use NewMockStore() for unit tests. Set MockStore.WriteErr to make every
// write fail. Use NewSQLiteStore(":memory:") for tests against real SQLite.
package store
