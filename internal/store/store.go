// ABOUTME: Store interfaces and content entity types for folio persistence
// ABOUTME: Defines the content entities plus append-only feedback and contact submissions

package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a create collides with an existing ID
	ErrConflict = errors.New("conflict")
)

// Project is a portfolio case study shown under /work.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	SlugPinned   bool      `json:"slug_pinned"` // set when an editor chose the slug; renames keep it
	Description  string    `json:"description"`
	Content      string    `json:"content,omitempty"` // markdown case-study body
	Client       string    `json:"client,omitempty"`
	Year         string    `json:"year,omitempty"`
	Role         string    `json:"role,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Images       []string  `json:"images"`
	Tags         []string  `json:"tags"`
	DisplayOrder int       `json:"display_order"`
	Featured     bool      `json:"featured"`
	Scheduled    bool      `json:"scheduled"` // hidden from public lists until unscheduled
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service is an offering listed on /services with its own detail page.
type Service struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	SlugPinned   bool      `json:"slug_pinned"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon,omitempty"`
	Deliverables []string  `json:"deliverables"`
	DisplayOrder int       `json:"display_order"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Testimonial is a client quote.
type Testimonial struct {
	ID           string    `json:"id"`
	Quote        string    `json:"quote"`
	Author       string    `json:"author"`
	Title        string    `json:"title,omitempty"` // author's job title
	Company      string    `json:"company,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	ProjectID    string    `json:"project_id,omitempty"`
	PhaseTag     string    `json:"phase_tag,omitempty"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FAQ is a question/answer pair, grouped by category.
type FAQ struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Category     string    `json:"category,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProcessStep is one phase of the working process shown on /process.
type ProcessStep struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Page holds editable body content for a top-level page, keyed by slug.
// The slug "home" belongs to the root path.
type Page struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Content         string    `json:"content"` // markdown
	DisplayOrder    int       `json:"display_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Feedback is a visitor submission. Append-only: there is no update or delete.
type Feedback struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Sentiment string            `json:"sentiment,omitempty"`
	PageURL   string            `json:"page_url,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ContactSubmission is a message sent through the /contact form. Append-only.
type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFilter narrows list queries. Zero values mean "no constraint".
// Filters that an entity has no column for are ignored.
type ListFilter struct {
	Featured  *bool    // equality on featured
	Scheduled *bool    // equality on scheduled (projects)
	Category  string   // equality on category (faqs)
	Tags      []string // row must contain every tag (projects)
	Limit     int      // 0 means no limit
}

// Bool returns a pointer to b, for ListFilter fields.
func Bool(b bool) *bool {
	return &b
}

// ProjectStore persists projects. Lists are ordered by display_order ascending.
type ProjectStore interface {
	ListProjects(ctx context.Context, filter ListFilter) ([]*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*Project, error)
	CreateProject(ctx context.Context, p *Project) error
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id string) error
}

// ServiceStore persists services.
type ServiceStore interface {
	ListServices(ctx context.Context, filter ListFilter) ([]*Service, error)
	GetService(ctx context.Context, id string) (*Service, error)
	GetServiceBySlug(ctx context.Context, slug string) (*Service, error)
	CreateService(ctx context.Context, s *Service) error
	UpdateService(ctx context.Context, s *Service) error
	DeleteService(ctx context.Context, id string) error
}

// TestimonialStore persists testimonials.
type TestimonialStore interface {
	ListTestimonials(ctx context.Context, filter ListFilter) ([]*Testimonial, error)
	GetTestimonial(ctx context.Context, id string) (*Testimonial, error)
	CreateTestimonial(ctx context.Context, t *Testimonial) error
	UpdateTestimonial(ctx context.Context, t *Testimonial) error
	DeleteTestimonial(ctx context.Context, id string) error
}

// FAQStore persists FAQs.
type FAQStore interface {
	ListFAQs(ctx context.Context, filter ListFilter) ([]*FAQ, error)
	GetFAQ(ctx context.Context, id string) (*FAQ, error)
	CreateFAQ(ctx context.Context, f *FAQ) error
	UpdateFAQ(ctx context.Context, f *FAQ) error
	DeleteFAQ(ctx context.Context, id string) error
}

// ProcessStepStore persists process steps.
type ProcessStepStore interface {
	ListProcessSteps(ctx context.Context, filter ListFilter) ([]*ProcessStep, error)
	GetProcessStep(ctx context.Context, id string) (*ProcessStep, error)
	CreateProcessStep(ctx context.Context, s *ProcessStep) error
	UpdateProcessStep(ctx context.Context, s *ProcessStep) error
	DeleteProcessStep(ctx context.Context, id string) error
}

// PageStore persists page content.
type PageStore interface {
	ListPages(ctx context.Context, filter ListFilter) ([]*Page, error)
	GetPage(ctx context.Context, id string) (*Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*Page, error)
	CreatePage(ctx context.Context, p *Page) error
	UpdatePage(ctx context.Context, p *Page) error
	DeletePage(ctx context.Context, id string) error
}

// FeedbackStore persists visitor feedback.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *Feedback) error
	ListFeedback(ctx context.Context, limit int) ([]*Feedback, error)
}

// ContactStore persists contact form submissions.
type ContactStore interface {
	CreateContactSubmission(ctx context.Context, c *ContactSubmission) error
	ListContactSubmissions(ctx context.Context, limit int) ([]*ContactSubmission, error)
}

// AuditStore records administrative mutations.
type AuditStore interface {
	AppendAuditLog(ctx context.Context, e *AuditEntry) error
	ListAuditLog(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)
}

// Store is the full content store: every entity plus the audit log.
type Store interface {
	ProjectStore
	ServiceStore
	TestimonialStore
	FAQStore
	ProcessStepStore
	PageStore
	FeedbackStore
	ContactStore
	AuditStore

	// Close releases any resources held by the store
	Close() error
}
