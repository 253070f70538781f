// ABOUTME: Tests for the content service write flow
// ABOUTME: Covers validation, slug derivation, invalidation, partial failures and auditing

package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/folio/internal/auth"
	"github.com/2389/folio/internal/revalidate"
	"github.com/2389/folio/internal/store"
)

// recorder is an Invalidator that remembers every key it was asked to drop.
type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	// onPath, when set, runs for every path invalidation.
	onPath func(path string)
}

func (r *recorder) InvalidatePath(ctx context.Context, path string, scope revalidate.Scope) error {
	if r.onPath != nil {
		r.onPath(path)
	}
	k := revalidate.Key{Kind: revalidate.KindPath, Value: path, Scope: scope}.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, k)
	return r.fail[k]
}

func (r *recorder) InvalidateTag(ctx context.Context, tag string) error {
	k := revalidate.Key{Kind: revalidate.KindTag, Value: tag}.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, k)
	return r.fail[k]
}

func (r *recorder) called(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newTestService(t *testing.T) (*Service, *store.MockStore, *recorder) {
	t.Helper()
	st := store.NewMockStore()
	rec := &recorder{}
	return New(st, rec, nil), st, rec
}

func TestCreateProject_FeaturedWithoutSlug(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateProject(ctx, ProjectInput{Title: "Patient Engagement! 2.0", Featured: true})
	require.NoError(t, err)
	require.NoError(t, res.InvalidationErr)
	require.NotNil(t, res.Data)

	assert.Equal(t, "patient-engagement-20", res.Data.Slug)
	assert.NotEmpty(t, res.Data.ID)

	for _, key := range []string{"path:/work", "path:/", "path:/work/patient-engagement-20", "tag:projects"} {
		assert.True(t, rec.called(key), "expected %s to be invalidated", key)
	}

	got, err := st.GetProjectBySlug(ctx, "patient-engagement-20")
	require.NoError(t, err)
	assert.Equal(t, res.Data.ID, got.ID)
}

func TestCreateProject_PinnedSlug(t *testing.T) {
	svc, _, rec := newTestService(t)

	res, err := svc.CreateProject(context.Background(), ProjectInput{Title: "Anything", Slug: "custom-slug"})
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", res.Data.Slug)
	assert.True(t, rec.called("path:/work/custom-slug"))
	assert.False(t, rec.called("path:/"), "non-featured project leaves home alone")
}

func TestCreateProject_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    ProjectInput
		field string
	}{
		{"missing title", ProjectInput{}, "title"},
		{"bad pinned slug", ProjectInput{Title: "Ok", Slug: "Not A Slug"}, "slug"},
		{"title with no slug characters", ProjectInput{Title: "!!!"}, "slug"},
		{"title too long", ProjectInput{Title: strings.Repeat("x", 201)}, "title"},
		{"empty tag", ProjectInput{Title: "Ok", Tags: []string{"ux", ""}}, "tags[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st, rec := newTestService(t)

			_, err := svc.CreateProject(context.Background(), tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)

			projects, err := st.ListProjects(context.Background(), store.ListFilter{})
			require.NoError(t, err)
			assert.Empty(t, projects, "nothing written")
			assert.Zero(t, rec.count(), "nothing invalidated")
		})
	}
}

func TestCreateProject_NegativeDisplayOrder(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, ProjectInput{Title: "Second"})
	require.NoError(t, err)
	res, err := svc.CreateProject(ctx, ProjectInput{Title: "Pinned To Top", DisplayOrder: -5})
	require.NoError(t, err)
	assert.Equal(t, -5, res.Data.DisplayOrder)

	projects, err := st.ListProjects(ctx, store.ListFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Pinned To Top", projects[0].Title)
}

func TestValidationError_InvalidSlug(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateService(context.Background(), ServiceInput{Title: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePage(context.Background(), PageInput{Title: "About", Slug: "-"})
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestUpdateProject_SlugChangeInvalidatesBoth(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, ProjectInput{Title: "Old Name", Featured: true})
	require.NoError(t, err)

	rec.calls = nil
	res, err := svc.UpdateProject(ctx, created.Data.ID, ProjectInput{Title: "New Name", Slug: "new-name"})
	require.NoError(t, err)

	assert.Equal(t, "new-name", res.Data.Slug)
	assert.Equal(t, created.Data.CreatedAt, res.Data.CreatedAt)
	assert.True(t, rec.called("path:/work/old-name"))
	assert.True(t, rec.called("path:/work/new-name"))
	assert.True(t, rec.called("path:/"), "project was featured before the update")
}

func TestUpdateProject_RenameRederivesSlug(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, ProjectInput{Title: "Old Name"})
	require.NoError(t, err)
	assert.False(t, created.Data.SlugPinned)

	rec.calls = nil
	res, err := svc.UpdateProject(ctx, created.Data.ID, ProjectInput{Title: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "new-name", res.Data.Slug)
	assert.False(t, res.Data.SlugPinned)

	assert.True(t, rec.called("path:/work/old-name"), "old URL is dropped")
	assert.True(t, rec.called("path:/work/new-name"), "new URL is rendered fresh")

	got, err := st.GetProjectBySlug(ctx, "new-name")
	require.NoError(t, err)
	assert.Equal(t, created.Data.ID, got.ID)
}

func TestUpdateProject_PinnedSlugKeptOnRename(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, ProjectInput{Title: "Stable Link", Slug: "stable-link"})
	require.NoError(t, err)
	assert.True(t, created.Data.SlugPinned)

	rec.calls = nil
	res, err := svc.UpdateProject(ctx, created.Data.ID, ProjectInput{Title: "Renamed Entirely"})
	require.NoError(t, err)
	assert.Equal(t, "stable-link", res.Data.Slug)
	assert.True(t, res.Data.SlugPinned, "pin survives an update that omits the slug")
	assert.Equal(t, "Renamed Entirely", res.Data.Title)
	assert.False(t, rec.called("path:/work/renamed-entirely"))
}

func TestUpdateService_RenameRederivesSlug(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, ServiceInput{Title: "Research"})
	require.NoError(t, err)

	rec.calls = nil
	res, err := svc.UpdateService(ctx, created.Data.ID, ServiceInput{Title: "User Research"})
	require.NoError(t, err)
	assert.Equal(t, "user-research", res.Data.Slug)
	assert.True(t, rec.called("path:/services/research"))
	assert.True(t, rec.called("path:/services/user-research"))

	// Choosing a slug pins it from then on.
	res, err = svc.UpdateService(ctx, created.Data.ID, ServiceInput{Title: "User Research", Slug: "research"})
	require.NoError(t, err)
	assert.True(t, res.Data.SlugPinned)

	res, err = svc.UpdateService(ctx, created.Data.ID, ServiceInput{Title: "Discovery Research"})
	require.NoError(t, err)
	assert.Equal(t, "research", res.Data.Slug)
}

func TestUpdateProject_NotFound(t *testing.T) {
	svc, _, rec := newTestService(t)

	_, err := svc.UpdateProject(context.Background(), "missing", ProjectInput{Title: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Zero(t, rec.count())
}

func TestDeleteService_NonFeatured(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, ServiceInput{Title: "Research"})
	require.NoError(t, err)

	rec.calls = nil
	res, err := svc.DeleteService(ctx, created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, "research", res.Data.Slug, "deleted row is returned")

	assert.True(t, rec.called("path:/services"))
	assert.True(t, rec.called("path:/admin/services"))
	assert.False(t, rec.called("path:/"))

	_, err = st.GetService(ctx, created.Data.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateFAQ_Category(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateFAQ(ctx, FAQInput{Question: "How long?", Answer: "Weeks.", Category: "timeline"})
	require.NoError(t, err)

	rec.calls = nil
	_, err = svc.UpdateFAQ(ctx, created.Data.ID, FAQInput{Question: "How long?", Answer: "Weeks.", Category: "process"})
	require.NoError(t, err)

	assert.True(t, rec.called("path:/faqs"))
	assert.True(t, rec.called("path:/services"))
	assert.False(t, rec.called("path:/work"))
}

func TestUpdatePage_BySlug(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePage(ctx, PageInput{Title: "Home", Content: "# Hi"})
	require.NoError(t, err)

	rec.calls = nil
	res, err := svc.UpdatePage(ctx, "home", PageInput{Title: "Home", Content: "# Hello"})
	require.NoError(t, err)
	assert.Equal(t, "# Hello", res.Data.Content)
	assert.True(t, rec.called("path:/"), "home page slug maps to the root path")
	assert.True(t, rec.called("tag:pages"))

	_, err = svc.UpdatePage(ctx, "nope", PageInput{Title: "Nope"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWriteFailure_NoInvalidation(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTestimonial(ctx, TestimonialInput{Quote: "Great", Author: "Sam"})
	require.NoError(t, err)

	st.WriteErr = errors.New("disk full")
	rec.calls = nil

	_, err = svc.UpdateTestimonial(ctx, created.Data.ID, TestimonialInput{Quote: "Greater", Author: "Sam"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, rec.count())

	_, err = svc.CreateProcessStep(ctx, ProcessStepInput{Title: "Discover"})
	require.Error(t, err)
	assert.Zero(t, rec.count())
}

func TestInvalidationFailure_ReportedNotRolledBack(t *testing.T) {
	svc, st, rec := newTestService(t)
	rec.fail = map[string]error{"path:/work": errors.New("cache down")}
	ctx := context.Background()

	res, err := svc.CreateProject(ctx, ProjectInput{Title: "Kept"})
	require.NoError(t, err, "write succeeded")
	require.Error(t, res.InvalidationErr)
	assert.Contains(t, res.InvalidationErr.Error(), "cache down")

	_, err = st.GetProject(ctx, res.Data.ID)
	require.NoError(t, err, "row is not rolled back")
	assert.True(t, rec.called("tag:projects"), "later keys still applied")
}

func TestConcurrentProjectUpdates_LastWriteWins(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, ProjectInput{Title: "Race", Slug: "race"})
	require.NoError(t, err)
	id := created.Data.ID

	// Record what the store holds each time the detail page is invalidated.
	var (
		mu       sync.Mutex
		observed []string
	)
	rec.onPath = func(path string) {
		if path != "/work/race" {
			return
		}
		p, err := st.GetProject(ctx, id)
		if err != nil {
			return
		}
		mu.Lock()
		observed = append(observed, p.Title)
		mu.Unlock()
	}

	const writers = 16
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UpdateProject(ctx, id, ProjectInput{Title: fmt.Sprintf("Title %d", i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := st.GetProject(ctx, id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(final.Title, "Title "))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, observed, writers)
	assert.Equal(t, final.Title, observed[len(observed)-1], "an invalidation ran after the last write")
}

func TestSubmitFeedback(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	res, err := svc.SubmitFeedback(ctx, FeedbackInput{Content: "Love it", Sentiment: "positive", PageURL: "/work"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Data.ID)
	assert.Equal(t, []string{"path:/admin/feedback"}, rec.calls)

	list, err := st.ListFeedback(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.SubmitFeedback(ctx, FeedbackInput{Content: "x", Sentiment: "ecstatic"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sentiment")
}

func TestSubmitContact(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	res, err := svc.SubmitContact(ctx, ContactInput{
		Name:    "  Ana Ruiz ",
		Email:   "ana@example.com",
		Company: "Clinic Co",
		Message: "We need a patient portal.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Data.ID)
	assert.Equal(t, "Ana Ruiz", res.Data.Name)
	assert.Equal(t, []string{"path:/admin/contact"}, rec.calls)

	list, err := st.ListContactSubmissions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ana@example.com", list[0].Email)
}

func TestSubmitContact_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    ContactInput
		field string
	}{
		{"missing name", ContactInput{Email: "a@example.com", Message: "hi"}, "name"},
		{"missing email", ContactInput{Name: "A", Message: "hi"}, "email"},
		{"malformed email", ContactInput{Name: "A", Email: "not-an-address", Message: "hi"}, "email"},
		{"missing message", ContactInput{Name: "A", Email: "a@example.com"}, "message"},
		{"message too long", ContactInput{Name: "A", Email: "a@example.com", Message: strings.Repeat("x", 5001)}, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st, rec := newTestService(t)

			_, err := svc.SubmitContact(context.Background(), tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)

			list, err := st.ListContactSubmissions(context.Background(), 10)
			require.NoError(t, err)
			assert.Empty(t, list)
			assert.Zero(t, rec.count())
		})
	}
}

func TestSubmitContact_HoneypotDropsSilently(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	// Bots also tend to send junk in the real fields; that must not surface as an error.
	res, err := svc.SubmitContact(ctx, ContactInput{Name: "x", Email: "bogus", Website: "http://spam.example"})
	require.NoError(t, err)
	require.NotNil(t, res.Data)
	assert.Empty(t, res.Data.ID)
	assert.Zero(t, res.Invalidated.Len())

	list, err := st.ListContactSubmissions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list, "nothing stored")
	assert.Zero(t, rec.count(), "nothing invalidated")
}

func TestAuditTrail(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := auth.WithAuth(context.Background(), &auth.AuthContext{Subject: "alice", Role: auth.RoleEditor})

	created, err := svc.CreateFAQ(ctx, FAQInput{Question: "Q", Answer: "A"})
	require.NoError(t, err)
	_, err = svc.DeleteFAQ(ctx, created.Data.ID)
	require.NoError(t, err)

	entries, err := st.ListAuditLog(ctx, store.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, store.AuditDelete, entries[0].Action)
	assert.Equal(t, store.AuditCreate, entries[1].Action)
	for _, e := range entries {
		assert.Equal(t, "alice", e.Actor)
		assert.Equal(t, string(revalidate.EntityFAQ), e.TargetType)
		assert.Equal(t, created.Data.ID, e.TargetID)
	}
}

func TestRevalidateAll(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	keys, err := svc.RevalidateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, revalidate.Nuclear().Len(), keys.Len())
	assert.True(t, rec.called("layout:/"))
	assert.True(t, rec.called("tag:projects"))

	entries, err := st.ListAuditLog(ctx, store.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, store.AuditRevalidateAll, entries[0].Action)
	assert.Equal(t, auth.SystemActor, entries[0].Actor)
}
