// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite and to inject write failures

package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
// Ordering matches SQLiteStore: display_order ascending, then insertion order.
type MockStore struct {
	mu  sync.RWMutex
	seq uint64

	projects     table[Project]
	services     table[Service]
	testimonials table[Testimonial]
	faqs         table[FAQ]
	steps        table[ProcessStep]
	pages        table[Page]
	feedback     []Feedback
	contacts     []ContactSubmission
	audit        []AuditEntry

	// WriteErr, when set, is returned by every create, update and delete.
	WriteErr error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		projects:     newTable[Project](),
		services:     newTable[Service](),
		testimonials: newTable[Testimonial](),
		faqs:         newTable[FAQ](),
		steps:        newTable[ProcessStep](),
		pages:        newTable[Page](),
	}
}

type tableRow[T any] struct {
	seq uint64
	val T
}

// table is a keyed collection that remembers insertion order.
type table[T any] struct {
	rows map[string]tableRow[T]
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]tableRow[T])}
}

func (t table[T]) insert(id string, seq uint64, v T) error {
	if _, ok := t.rows[id]; ok {
		return ErrConflict
	}
	t.rows[id] = tableRow[T]{seq: seq, val: v}
	return nil
}

func (t table[T]) replace(id string, v T) error {
	r, ok := t.rows[id]
	if !ok {
		return ErrNotFound
	}
	r.val = v
	t.rows[id] = r
	return nil
}

func (t table[T]) remove(id string) error {
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t table[T]) get(id string) (T, bool) {
	r, ok := t.rows[id]
	return r.val, ok
}

// sorted returns rows passing keep, by order then insertion sequence.
func (t table[T]) sorted(order func(*T) int, keep func(*T) bool) []T {
	rs := make([]tableRow[T], 0, len(t.rows))
	for _, r := range t.rows {
		if keep == nil || keep(&r.val) {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool {
		oi, oj := order(&rs[i].val), order(&rs[j].val)
		if oi != oj {
			return oi < oj
		}
		return rs[i].seq < rs[j].seq
	})
	out := make([]T, len(rs))
	for i, r := range rs {
		out[i] = r.val
	}
	return out
}

func limitSlice[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

func (m *MockStore) nextSeq() uint64 {
	m.seq++
	return m.seq
}

func matchesFeatured(f ListFilter, featured bool) bool {
	return f.Featured == nil || *f.Featured == featured
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

// Projects

func cloneProject(p Project) *Project {
	p.Images = cloneStrings(p.Images)
	p.Tags = cloneStrings(p.Tags)
	return &p
}

func (m *MockStore) ListProjects(ctx context.Context, filter ListFilter) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.projects.sorted(
		func(p *Project) int { return p.DisplayOrder },
		func(p *Project) bool {
			if !matchesFeatured(filter, p.Featured) {
				return false
			}
			if filter.Scheduled != nil && *filter.Scheduled != p.Scheduled {
				return false
			}
			return containsAll(p.Tags, filter.Tags)
		},
	)
	out := []*Project{}
	for _, p := range limitSlice(rows, filter.Limit) {
		out = append(out, cloneProject(p))
	}
	return out, nil
}

func (m *MockStore) GetProject(ctx context.Context, id string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProject(p), nil
}

func (m *MockStore) GetProjectBySlug(ctx context.Context, slug string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.projects.sorted(
		func(p *Project) int { return p.DisplayOrder },
		func(p *Project) bool { return p.Slug == slug },
	)
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return cloneProject(rows[0]), nil
}

func (m *MockStore) CreateProject(ctx context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return m.projects.insert(p.ID, m.nextSeq(), *cloneProject(*p))
}

func (m *MockStore) UpdateProject(ctx context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	existing, ok := m.projects.get(p.ID)
	if !ok {
		return ErrNotFound
	}
	p.UpdatedAt = nowUTC()
	p.CreatedAt = existing.CreatedAt
	return m.projects.replace(p.ID, *cloneProject(*p))
}

func (m *MockStore) DeleteProject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	return m.projects.remove(id)
}

// Services

func cloneService(s Service) *Service {
	s.Deliverables = cloneStrings(s.Deliverables)
	return &s
}

func (m *MockStore) ListServices(ctx context.Context, filter ListFilter) ([]*Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.services.sorted(
		func(s *Service) int { return s.DisplayOrder },
		func(s *Service) bool { return matchesFeatured(filter, s.Featured) },
	)
	out := []*Service{}
	for _, s := range limitSlice(rows, filter.Limit) {
		out = append(out, cloneService(s))
	}
	return out, nil
}

func (m *MockStore) GetService(ctx context.Context, id string) (*Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.services.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return cloneService(s), nil
}

func (m *MockStore) GetServiceBySlug(ctx context.Context, slug string) (*Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.services.sorted(
		func(s *Service) int { return s.DisplayOrder },
		func(s *Service) bool { return s.Slug == slug },
	)
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return cloneService(rows[0]), nil
}

func (m *MockStore) CreateService(ctx context.Context, s *Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return m.services.insert(s.ID, m.nextSeq(), *cloneService(*s))
}

func (m *MockStore) UpdateService(ctx context.Context, s *Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	existing, ok := m.services.get(s.ID)
	if !ok {
		return ErrNotFound
	}
	s.UpdatedAt = nowUTC()
	s.CreatedAt = existing.CreatedAt
	return m.services.replace(s.ID, *cloneService(*s))
}

func (m *MockStore) DeleteService(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	return m.services.remove(id)
}

// Testimonials

func (m *MockStore) ListTestimonials(ctx context.Context, filter ListFilter) ([]*Testimonial, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.testimonials.sorted(
		func(t *Testimonial) int { return t.DisplayOrder },
		func(t *Testimonial) bool { return matchesFeatured(filter, t.Featured) },
	)
	out := []*Testimonial{}
	for _, t := range limitSlice(rows, filter.Limit) {
		out = append(out, &t)
	}
	return out, nil
}

func (m *MockStore) GetTestimonial(ctx context.Context, id string) (*Testimonial, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.testimonials.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *MockStore) CreateTestimonial(ctx context.Context, t *Testimonial) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return m.testimonials.insert(t.ID, m.nextSeq(), *t)
}

func (m *MockStore) UpdateTestimonial(ctx context.Context, t *Testimonial) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	existing, ok := m.testimonials.get(t.ID)
	if !ok {
		return ErrNotFound
	}
	t.UpdatedAt = nowUTC()
	t.CreatedAt = existing.CreatedAt
	return m.testimonials.replace(t.ID, *t)
}

func (m *MockStore) DeleteTestimonial(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	return m.testimonials.remove(id)
}

// FAQs

func (m *MockStore) ListFAQs(ctx context.Context, filter ListFilter) ([]*FAQ, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.faqs.sorted(
		func(f *FAQ) int { return f.DisplayOrder },
		func(f *FAQ) bool { return filter.Category == "" || f.Category == filter.Category },
	)
	out := []*FAQ{}
	for _, f := range limitSlice(rows, filter.Limit) {
		out = append(out, &f)
	}
	return out, nil
}

func (m *MockStore) GetFAQ(ctx context.Context, id string) (*FAQ, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.faqs.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (m *MockStore) CreateFAQ(ctx context.Context, f *FAQ) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	stamp(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	return m.faqs.insert(f.ID, m.nextSeq(), *f)
}

func (m *MockStore) UpdateFAQ(ctx context.Context, f *FAQ) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	existing, ok := m.faqs.get(f.ID)
	if !ok {
		return ErrNotFound
	}
	f.UpdatedAt = nowUTC()
	f.CreatedAt = existing.CreatedAt
	return m.faqs.replace(f.ID, *f)
}

func (m *MockStore) DeleteFAQ(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	return m.faqs.remove(id)
}

// Process steps

func (m *MockStore) ListProcessSteps(ctx context.Context, filter ListFilter) ([]*ProcessStep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.steps.sorted(func(s *ProcessStep) int { return s.DisplayOrder }, nil)
	out := []*ProcessStep{}
	for _, s := range limitSlice(rows, filter.Limit) {
		out = append(out, &s)
	}
	return out, nil
}

func (m *MockStore) GetProcessStep(ctx context.Context, id string) (*ProcessStep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.steps.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MockStore) CreateProcessStep(ctx context.Context, s *ProcessStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return m.steps.insert(s.ID, m.nextSeq(), *s)
}

func (m *MockStore) UpdateProcessStep(ctx context.Context, s *ProcessStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	existing, ok := m.steps.get(s.ID)
	if !ok {
		return ErrNotFound
	}
	s.UpdatedAt = nowUTC()
	s.CreatedAt = existing.CreatedAt
	return m.steps.replace(s.ID, *s)
}

func (m *MockStore) DeleteProcessStep(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	return m.steps.remove(id)
}

// Pages

func (m *MockStore) ListPages(ctx context.Context, filter ListFilter) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.pages.sorted(func(p *Page) int { return p.DisplayOrder }, nil)
	out := []*Page{}
	for _, p := range limitSlice(rows, filter.Limit) {
		out = append(out, &p)
	}
	return out, nil
}

func (m *MockStore) GetPage(ctx context.Context, id string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pages.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MockStore) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.pages.sorted(
		func(p *Page) int { return p.DisplayOrder },
		func(p *Page) bool { return p.Slug == slug },
	)
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	p := rows[0]
	return &p, nil
}

func (m *MockStore) CreatePage(ctx context.Context, p *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return m.pages.insert(p.ID, m.nextSeq(), *p)
}

func (m *MockStore) UpdatePage(ctx context.Context, p *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	existing, ok := m.pages.get(p.ID)
	if !ok {
		return ErrNotFound
	}
	p.UpdatedAt = nowUTC()
	p.CreatedAt = existing.CreatedAt
	return m.pages.replace(p.ID, *p)
}

func (m *MockStore) DeletePage(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	return m.pages.remove(id)
}

// Feedback

func (m *MockStore) CreateFeedback(ctx context.Context, f *Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = nowUTC()
	}
	cp := *f
	if f.Metadata != nil {
		cp.Metadata = make(map[string]string, len(f.Metadata))
		for k, v := range f.Metadata {
			cp.Metadata[k] = v
		}
	}
	m.feedback = append(m.feedback, cp)
	return nil
}

func (m *MockStore) ListFeedback(ctx context.Context, limit int) ([]*Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit = normalizeLimit(limit)
	out := []*Feedback{}
	for i := len(m.feedback) - 1; i >= 0 && len(out) < limit; i-- {
		f := m.feedback[i]
		out = append(out, &f)
	}
	return out, nil
}

// Contact submissions

func (m *MockStore) CreateContactSubmission(ctx context.Context, c *ContactSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = nowUTC()
	}
	m.contacts = append(m.contacts, *c)
	return nil
}

func (m *MockStore) ListContactSubmissions(ctx context.Context, limit int) ([]*ContactSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit = normalizeLimit(limit)
	out := []*ContactSubmission{}
	for i := len(m.contacts) - 1; i >= 0 && len(out) < limit; i-- {
		c := m.contacts[i]
		out = append(out, &c)
	}
	return out, nil
}

// Audit log

func (m *MockStore) AppendAuditLog(ctx context.Context, e *AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = nowUTC()
	}
	m.audit = append(m.audit, *e)
	return nil
}

func (m *MockStore) ListAuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := normalizeLimit(f.Limit)
	entries := []AuditEntry{}
	for i := len(m.audit) - 1; i >= 0 && len(entries) < limit; i-- {
		e := m.audit[i]
		if f.Since != nil && e.Timestamp.Before(*f.Since) {
			continue
		}
		if f.Until != nil && e.Timestamp.After(*f.Until) {
			continue
		}
		if f.Actor != nil && e.Actor != *f.Actor {
			continue
		}
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		if f.TargetType != nil && e.TargetType != *f.TargetType {
			continue
		}
		if f.TargetID != nil && e.TargetID != *f.TargetID {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (m *MockStore) Close() error {
	return nil
}

var (
	_ Store = (*MockStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
