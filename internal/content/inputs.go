// ABOUTME: Admin-facing input shapes for each content entity
// ABOUTME: Validation rules live in struct tags; apply copies inputs onto store rows

package content

import "github.com/2389/folio/internal/store"

// ProjectInput is the writable shape of a project. A non-empty Slug pins it; an
// empty one derives the slug from Title unless the stored slug is pinned.
// DisplayOrder is any int, negative values sort first.
type ProjectInput struct {
	Title        string   `json:"title" toml:"title" validate:"required,max=200"`
	Slug         string   `json:"slug,omitempty" toml:"slug" validate:"omitempty,max=200,slug"`
	Description  string   `json:"description" toml:"description" validate:"max=2000"`
	Content      string   `json:"content,omitempty" toml:"content" validate:"max=100000"`
	Client       string   `json:"client,omitempty" toml:"client" validate:"max=200"`
	Year         string   `json:"year,omitempty" toml:"year" validate:"max=20"`
	Role         string   `json:"role,omitempty" toml:"role" validate:"max=200"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty" toml:"thumbnail_url" validate:"max=2048"`
	Images       []string `json:"images" toml:"images" validate:"max=50,dive,required,max=2048"`
	Tags         []string `json:"tags" toml:"tags" validate:"max=30,dive,required,max=50"`
	DisplayOrder int      `json:"display_order" toml:"display_order"`
	Featured     bool     `json:"featured" toml:"featured"`
	Scheduled    bool     `json:"scheduled" toml:"scheduled"`
}

func (in ProjectInput) apply(p *store.Project) {
	p.Title = in.Title
	p.Description = in.Description
	p.Content = in.Content
	p.Client = in.Client
	p.Year = in.Year
	p.Role = in.Role
	p.ThumbnailURL = in.ThumbnailURL
	p.Images = in.Images
	p.Tags = in.Tags
	p.DisplayOrder = in.DisplayOrder
	p.Featured = in.Featured
	p.Scheduled = in.Scheduled
}

// ServiceInput is the writable shape of a service.
type ServiceInput struct {
	Title        string   `json:"title" toml:"title" validate:"required,max=200"`
	Slug         string   `json:"slug,omitempty" toml:"slug" validate:"omitempty,max=200,slug"`
	Description  string   `json:"description" toml:"description" validate:"max=5000"`
	Icon         string   `json:"icon,omitempty" toml:"icon" validate:"max=100"`
	Deliverables []string `json:"deliverables" toml:"deliverables" validate:"max=50,dive,required,max=200"`
	DisplayOrder int      `json:"display_order" toml:"display_order"`
	Featured     bool     `json:"featured" toml:"featured"`
}

func (in ServiceInput) apply(s *store.Service) {
	s.Title = in.Title
	s.Description = in.Description
	s.Icon = in.Icon
	s.Deliverables = in.Deliverables
	s.DisplayOrder = in.DisplayOrder
	s.Featured = in.Featured
}

// TestimonialInput is the writable shape of a testimonial.
type TestimonialInput struct {
	Quote        string `json:"quote" toml:"quote" validate:"required,max=5000"`
	Author       string `json:"author" toml:"author" validate:"required,max=200"`
	Title        string `json:"title,omitempty" toml:"title" validate:"max=200"`
	Company      string `json:"company,omitempty" toml:"company" validate:"max=200"`
	AvatarURL    string `json:"avatar_url,omitempty" toml:"avatar_url" validate:"max=2048"`
	ProjectID    string `json:"project_id,omitempty" toml:"project_id" validate:"max=100"`
	PhaseTag     string `json:"phase_tag,omitempty" toml:"phase_tag" validate:"max=100"`
	Featured     bool   `json:"featured" toml:"featured"`
	DisplayOrder int    `json:"display_order" toml:"display_order"`
}

func (in TestimonialInput) apply(t *store.Testimonial) {
	t.Quote = in.Quote
	t.Author = in.Author
	t.Title = in.Title
	t.Company = in.Company
	t.AvatarURL = in.AvatarURL
	t.ProjectID = in.ProjectID
	t.PhaseTag = in.PhaseTag
	t.Featured = in.Featured
	t.DisplayOrder = in.DisplayOrder
}

// FAQInput is the writable shape of an FAQ.
type FAQInput struct {
	Question     string `json:"question" toml:"question" validate:"required,max=500"`
	Answer       string `json:"answer" toml:"answer" validate:"required,max=10000"`
	Category     string `json:"category,omitempty" toml:"category" validate:"max=100"`
	DisplayOrder int    `json:"display_order" toml:"display_order"`
}

func (in FAQInput) apply(f *store.FAQ) {
	f.Question = in.Question
	f.Answer = in.Answer
	f.Category = in.Category
	f.DisplayOrder = in.DisplayOrder
}

// ProcessStepInput is the writable shape of a process step.
type ProcessStepInput struct {
	Title        string `json:"title" toml:"title" validate:"required,max=200"`
	Description  string `json:"description" toml:"description" validate:"max=5000"`
	Icon         string `json:"icon,omitempty" toml:"icon" validate:"max=100"`
	DisplayOrder int    `json:"display_order" toml:"display_order"`
}

func (in ProcessStepInput) apply(p *store.ProcessStep) {
	p.Title = in.Title
	p.Description = in.Description
	p.Icon = in.Icon
	p.DisplayOrder = in.DisplayOrder
}

// PageInput is the writable shape of a page. Slug is derived from Title when empty.
type PageInput struct {
	Slug            string `json:"slug,omitempty" toml:"slug" validate:"omitempty,max=200,slug"`
	Title           string `json:"title" toml:"title" validate:"required,max=200"`
	MetaDescription string `json:"meta_description,omitempty" toml:"meta_description" validate:"max=500"`
	Content         string `json:"content" toml:"content" validate:"max=200000"`
	DisplayOrder    int    `json:"display_order" toml:"display_order"`
}

func (in PageInput) apply(p *store.Page) {
	p.Title = in.Title
	p.MetaDescription = in.MetaDescription
	p.Content = in.Content
	p.DisplayOrder = in.DisplayOrder
}

// FeedbackInput is a visitor submission.
type FeedbackInput struct {
	Content   string            `json:"content" validate:"required,max=5000"`
	Sentiment string            `json:"sentiment,omitempty" validate:"omitempty,oneof=positive neutral negative"`
	PageURL   string            `json:"page_url,omitempty" validate:"max=2048"`
	Metadata  map[string]string `json:"metadata,omitempty" validate:"max=20,dive,keys,max=64,endkeys,max=500"`
}

// ContactInput is a message from the /contact form. Website is a honeypot:
// the form hides it, so only bots fill it in.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,max=320,email"`
	Company string `json:"company,omitempty" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
	Website string `json:"website,omitempty"`
}
