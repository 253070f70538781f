// ABOUTME: Contract tests run against both SQLiteStore and MockStore
// ABOUTME: Covers CRUD, ordering, filters, slug lookup and not-found handling

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// forEachStore runs fn against a fresh SQLiteStore and a fresh MockStore.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newTestStore(t)) })
	t.Run("mock", func(t *testing.T) { fn(t, NewMockStore()) })
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "folio.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist")
}

func TestNewSQLiteStore_ReopenRunsMigrationsIdempotently(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "folio.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.CreateProject(context.Background(), &Project{Title: "A", Slug: "a", Scheduled: true}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetProjectBySlug(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, got.Scheduled)
}

func TestProjectCRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		p := &Project{
			Title:       "Patient Portal",
			Slug:        "patient-portal",
			SlugPinned:  true,
			Description: "Redesign",
			Images:      []string{"/img/a.png"},
			Tags:        []string{"health", "ux"},
			Featured:    true,
		}
		require.NoError(t, s.CreateProject(ctx, p))
		require.NotEmpty(t, p.ID, "ID should be generated")
		assert.False(t, p.CreatedAt.IsZero())

		got, err := s.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Patient Portal", got.Title)
		assert.Equal(t, []string{"health", "ux"}, got.Tags)
		assert.Equal(t, []string{"/img/a.png"}, got.Images)
		assert.True(t, got.Featured)
		assert.True(t, got.SlugPinned)

		got.Title = "Patient Portal v2"
		got.Featured = false
		got.SlugPinned = false
		require.NoError(t, s.UpdateProject(ctx, got))

		again, err := s.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Patient Portal v2", again.Title)
		assert.False(t, again.Featured)
		assert.False(t, again.SlugPinned)

		require.NoError(t, s.DeleteProject(ctx, p.ID))
		_, err = s.GetProject(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProject_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.GetProject(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.GetProjectBySlug(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		err = s.UpdateProject(ctx, &Project{ID: "missing", Title: "x", Slug: "x"})
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, s.DeleteProject(ctx, "missing"), ErrNotFound)
	})
}

func TestProject_DuplicateID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.CreateProject(ctx, &Project{ID: "p1", Title: "A", Slug: "a"}))
		err := s.CreateProject(ctx, &Project{ID: "p1", Title: "B", Slug: "b"})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestListProjects_OrderAndFilters(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		seed := []*Project{
			{Title: "C", Slug: "c", DisplayOrder: 2, Tags: []string{"web"}},
			{Title: "A", Slug: "a", DisplayOrder: 0, Featured: true, Tags: []string{"web", "health"}},
			{Title: "B1", Slug: "b1", DisplayOrder: 1, Tags: []string{"health"}},
			{Title: "B2", Slug: "b2", DisplayOrder: 1, Featured: true, Scheduled: true},
		}
		for _, p := range seed {
			require.NoError(t, s.CreateProject(ctx, p))
		}

		titles := func(ps []*Project) []string {
			out := make([]string, len(ps))
			for i, p := range ps {
				out[i] = p.Title
			}
			return out
		}

		all, err := s.ListProjects(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B1", "B2", "C"}, titles(all), "ties keep insertion order")

		featured, err := s.ListProjects(ctx, ListFilter{Featured: Bool(true)})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B2"}, titles(featured))

		notFeatured, err := s.ListProjects(ctx, ListFilter{Featured: Bool(false)})
		require.NoError(t, err)
		assert.Equal(t, []string{"B1", "C"}, titles(notFeatured))

		tagged, err := s.ListProjects(ctx, ListFilter{Tags: []string{"web", "health"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, titles(tagged), "tags must all be present")

		public, err := s.ListProjects(ctx, ListFilter{Scheduled: Bool(false)})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B1", "C"}, titles(public))

		limited, err := s.ListProjects(ctx, ListFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B1"}, titles(limited))

		ignored, err := s.ListProjects(ctx, ListFilter{Category: "nope"})
		require.NoError(t, err)
		assert.Len(t, ignored, 4, "category does not apply to projects")
	})
}

func TestListProjects_EmptyReturnsEmptySlice(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		got, err := s.ListProjects(context.Background(), ListFilter{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestGetProjectBySlug_FirstByOrder(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.CreateProject(ctx, &Project{Title: "Late", Slug: "dup", DisplayOrder: 5}))
		require.NoError(t, s.CreateProject(ctx, &Project{Title: "Early", Slug: "dup", DisplayOrder: 1}))

		got, err := s.GetProjectBySlug(ctx, "dup")
		require.NoError(t, err)
		assert.Equal(t, "Early", got.Title)
	})
}

func TestServiceCRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		sv := &Service{Title: "Research", Slug: "research", Deliverables: []string{"report"}}
		require.NoError(t, s.CreateService(ctx, sv))

		got, err := s.GetServiceBySlug(ctx, "research")
		require.NoError(t, err)
		assert.Equal(t, sv.ID, got.ID)
		assert.Equal(t, []string{"report"}, got.Deliverables)

		got.Slug = "user-research"
		require.NoError(t, s.UpdateService(ctx, got))
		_, err = s.GetServiceBySlug(ctx, "research")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.DeleteService(ctx, sv.ID))
		assert.ErrorIs(t, s.DeleteService(ctx, sv.ID), ErrNotFound)
	})
}

func TestTestimonialCRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		tm := &Testimonial{Quote: "Great", Author: "Sam", Featured: true}
		require.NoError(t, s.CreateTestimonial(ctx, tm))
		require.NoError(t, s.CreateTestimonial(ctx, &Testimonial{Quote: "Fine", Author: "Lee"}))

		featured, err := s.ListTestimonials(ctx, ListFilter{Featured: Bool(true)})
		require.NoError(t, err)
		require.Len(t, featured, 1)
		assert.Equal(t, "Sam", featured[0].Author)

		tm.Quote = "Excellent"
		require.NoError(t, s.UpdateTestimonial(ctx, tm))
		got, err := s.GetTestimonial(ctx, tm.ID)
		require.NoError(t, err)
		assert.Equal(t, "Excellent", got.Quote)

		require.NoError(t, s.DeleteTestimonial(ctx, tm.ID))
		_, err = s.GetTestimonial(ctx, tm.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFAQ_CategoryFilter(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.CreateFAQ(ctx, &FAQ{Question: "Cost?", Answer: "Depends", Category: "pricing", DisplayOrder: 2}))
		require.NoError(t, s.CreateFAQ(ctx, &FAQ{Question: "When?", Answer: "Soon", Category: "timeline"}))
		require.NoError(t, s.CreateFAQ(ctx, &FAQ{Question: "Deposit?", Answer: "Yes", Category: "pricing", DisplayOrder: 1}))

		pricing, err := s.ListFAQs(ctx, ListFilter{Category: "pricing"})
		require.NoError(t, err)
		require.Len(t, pricing, 2)
		assert.Equal(t, "Deposit?", pricing[0].Question)
		assert.Equal(t, "Cost?", pricing[1].Question)

		all, err := s.ListFAQs(ctx, ListFilter{Featured: Bool(true)})
		require.NoError(t, err)
		assert.Len(t, all, 3, "featured does not apply to faqs")
	})
}

func TestProcessStepCRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		step := &ProcessStep{Title: "Discover", DisplayOrder: 1}
		require.NoError(t, s.CreateProcessStep(ctx, step))
		require.NoError(t, s.CreateProcessStep(ctx, &ProcessStep{Title: "Kickoff", DisplayOrder: 0}))

		steps, err := s.ListProcessSteps(ctx, ListFilter{})
		require.NoError(t, err)
		require.Len(t, steps, 2)
		assert.Equal(t, "Kickoff", steps[0].Title)

		step.Description = "Interviews"
		require.NoError(t, s.UpdateProcessStep(ctx, step))
		got, err := s.GetProcessStep(ctx, step.ID)
		require.NoError(t, err)
		assert.Equal(t, "Interviews", got.Description)

		require.NoError(t, s.DeleteProcessStep(ctx, step.ID))
		assert.ErrorIs(t, s.UpdateProcessStep(ctx, step), ErrNotFound)
	})
}

func TestPageCRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		pg := &Page{Slug: "about", Title: "About", Content: "# Hi"}
		require.NoError(t, s.CreatePage(ctx, pg))

		got, err := s.GetPageBySlug(ctx, "about")
		require.NoError(t, err)
		assert.Equal(t, "# Hi", got.Content)

		got.Content = "# Hello"
		require.NoError(t, s.UpdatePage(ctx, got))
		got, err = s.GetPage(ctx, pg.ID)
		require.NoError(t, err)
		assert.Equal(t, "# Hello", got.Content)

		pages, err := s.ListPages(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Len(t, pages, 1)

		require.NoError(t, s.DeletePage(ctx, pg.ID))
		_, err = s.GetPageBySlug(ctx, "about")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFeedback_NewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, s.CreateFeedback(ctx, &Feedback{Content: "first", CreatedAt: base}))
		require.NoError(t, s.CreateFeedback(ctx, &Feedback{
			Content:   "second",
			PageURL:   "/work",
			Metadata:  map[string]string{"ua": "test"},
			CreatedAt: base.Add(time.Minute),
		}))

		got, err := s.ListFeedback(ctx, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "second", got[0].Content)
		assert.Equal(t, "test", got[0].Metadata["ua"])
		assert.Equal(t, "first", got[1].Content)

		one, err := s.ListFeedback(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, one, 1)
	})
}

func TestContactSubmissions_NewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

		first := &ContactSubmission{Name: "Ana", Email: "ana@example.com", Message: "Hello", CreatedAt: base}
		require.NoError(t, s.CreateContactSubmission(ctx, first))
		assert.NotEmpty(t, first.ID)
		require.NoError(t, s.CreateContactSubmission(ctx, &ContactSubmission{
			Name:      "Ben",
			Email:     "ben@example.com",
			Company:   "Clinic Co",
			Message:   "Project inquiry",
			CreatedAt: base.Add(time.Hour),
		}))

		got, err := s.ListContactSubmissions(ctx, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Ben", got[0].Name)
		assert.Equal(t, "Clinic Co", got[0].Company)
		assert.Equal(t, "Ana", got[1].Name)
		assert.True(t, got[1].CreatedAt.Equal(base))

		one, err := s.ListContactSubmissions(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, one, 1)
	})
}

func TestAuditLog_AppendAndFilter(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

		entries := []*AuditEntry{
			{Actor: "admin", Action: AuditCreate, TargetType: "project", TargetID: "p1", Timestamp: base},
			{Actor: "admin", Action: AuditUpdate, TargetType: "project", TargetID: "p1", Timestamp: base.Add(time.Minute),
				Detail: map[string]any{"slug": "alpha"}},
			{Actor: "editor", Action: AuditDelete, TargetType: "faq", TargetID: "f1", Timestamp: base.Add(2 * time.Minute)},
		}
		for _, e := range entries {
			require.NoError(t, s.AppendAuditLog(ctx, e))
			assert.NotEmpty(t, e.ID)
		}

		all, err := s.ListAuditLog(ctx, AuditFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, AuditDelete, all[0].Action, "newest first")

		target := "project"
		projects, err := s.ListAuditLog(ctx, AuditFilter{TargetType: &target})
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "alpha", projects[0].Detail["slug"])

		actor := "editor"
		byActor, err := s.ListAuditLog(ctx, AuditFilter{Actor: &actor})
		require.NoError(t, err)
		assert.Len(t, byActor, 1)

		since := base.Add(30 * time.Second)
		recent, err := s.ListAuditLog(ctx, AuditFilter{Since: &since, Limit: 1})
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "f1", recent[0].TargetID)
	})
}

func TestMockStore_WriteErr(t *testing.T) {
	s := NewMockStore()
	ctx := context.Background()
	boom := errors.New("disk full")
	s.WriteErr = boom

	assert.ErrorIs(t, s.CreateProject(ctx, &Project{Title: "x", Slug: "x"}), boom)
	assert.ErrorIs(t, s.CreateFeedback(ctx, &Feedback{Content: "x"}), boom)

	s.WriteErr = nil
	require.NoError(t, s.CreateProject(ctx, &Project{Title: "x", Slug: "x"}))
}

func TestMockStore_ReturnsCopies(t *testing.T) {
	s := NewMockStore()
	ctx := context.Background()

	p := &Project{Title: "x", Slug: "x", Tags: []string{"a"}}
	require.NoError(t, s.CreateProject(ctx, p))
	p.Tags[0] = "mutated"

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Tags)

	got.Tags[0] = "mutated"
	again, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Tags)
}
