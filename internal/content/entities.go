// ABOUTME: Admin actions for each content entity
// ABOUTME: Validate input, resolve slugs, then run the shared write flow

package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/2389/folio/internal/revalidate"
	"github.com/2389/folio/internal/store"
)

// Projects

func (s *Service) projects() entityOps[store.Project] {
	return entityOps[store.Project]{
		kind:   revalidate.EntityProject,
		get:    s.store.GetProject,
		create: s.store.CreateProject,
		update: s.store.UpdateProject,
		remove: s.store.DeleteProject,
		id:     func(p *store.Project) string { return p.ID },
	}
}

// CreateProject validates in and stores a new project. The slug is derived from
// the title unless in.Slug pins it.
func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (Result[store.Project], error) {
	if err := check(in); err != nil {
		return Result[store.Project]{}, err
	}
	sl, pinned, err := resolveSlug(in.Slug, in.Title, "", false)
	if err != nil {
		return Result[store.Project]{}, err
	}

	p := &store.Project{Slug: sl, SlugPinned: pinned}
	in.apply(p)
	return s.projects().doCreate(ctx, s, p)
}

// UpdateProject replaces the project's fields. An empty in.Slug re-derives the
// slug from the title unless an earlier write pinned it.
func (s *Service) UpdateProject(ctx context.Context, id string, in ProjectInput) (Result[store.Project], error) {
	if err := check(in); err != nil {
		return Result[store.Project]{}, err
	}
	ops := s.projects()
	return ops.doUpdate(ctx, s, ops.get, id, func(before *store.Project) (*store.Project, error) {
		after := *before
		sl, pinned, err := resolveSlug(in.Slug, in.Title, before.Slug, before.SlugPinned)
		if err != nil {
			return nil, err
		}
		after.Slug, after.SlugPinned = sl, pinned
		in.apply(&after)
		return &after, nil
	})
}

// DeleteProject removes a project.
func (s *Service) DeleteProject(ctx context.Context, id string) (Result[store.Project], error) {
	return s.projects().doDelete(ctx, s, id)
}

// Services

func (s *Service) services() entityOps[store.Service] {
	return entityOps[store.Service]{
		kind:   revalidate.EntityService,
		get:    s.store.GetService,
		create: s.store.CreateService,
		update: s.store.UpdateService,
		remove: s.store.DeleteService,
		id:     func(sv *store.Service) string { return sv.ID },
	}
}

// CreateService validates in and stores a new service.
func (s *Service) CreateService(ctx context.Context, in ServiceInput) (Result[store.Service], error) {
	if err := check(in); err != nil {
		return Result[store.Service]{}, err
	}
	sl, pinned, err := resolveSlug(in.Slug, in.Title, "", false)
	if err != nil {
		return Result[store.Service]{}, err
	}

	sv := &store.Service{Slug: sl, SlugPinned: pinned}
	in.apply(sv)
	return s.services().doCreate(ctx, s, sv)
}

// UpdateService replaces the service's fields.
func (s *Service) UpdateService(ctx context.Context, id string, in ServiceInput) (Result[store.Service], error) {
	if err := check(in); err != nil {
		return Result[store.Service]{}, err
	}
	ops := s.services()
	return ops.doUpdate(ctx, s, ops.get, id, func(before *store.Service) (*store.Service, error) {
		after := *before
		sl, pinned, err := resolveSlug(in.Slug, in.Title, before.Slug, before.SlugPinned)
		if err != nil {
			return nil, err
		}
		after.Slug, after.SlugPinned = sl, pinned
		in.apply(&after)
		return &after, nil
	})
}

// DeleteService removes a service.
func (s *Service) DeleteService(ctx context.Context, id string) (Result[store.Service], error) {
	return s.services().doDelete(ctx, s, id)
}

// Testimonials

func (s *Service) testimonials() entityOps[store.Testimonial] {
	return entityOps[store.Testimonial]{
		kind:   revalidate.EntityTestimonial,
		get:    s.store.GetTestimonial,
		create: s.store.CreateTestimonial,
		update: s.store.UpdateTestimonial,
		remove: s.store.DeleteTestimonial,
		id:     func(t *store.Testimonial) string { return t.ID },
	}
}

// CreateTestimonial validates in and stores a new testimonial.
func (s *Service) CreateTestimonial(ctx context.Context, in TestimonialInput) (Result[store.Testimonial], error) {
	if err := check(in); err != nil {
		return Result[store.Testimonial]{}, err
	}
	t := &store.Testimonial{}
	in.apply(t)
	return s.testimonials().doCreate(ctx, s, t)
}

// UpdateTestimonial replaces the testimonial's fields.
func (s *Service) UpdateTestimonial(ctx context.Context, id string, in TestimonialInput) (Result[store.Testimonial], error) {
	if err := check(in); err != nil {
		return Result[store.Testimonial]{}, err
	}
	ops := s.testimonials()
	return ops.doUpdate(ctx, s, ops.get, id, func(before *store.Testimonial) (*store.Testimonial, error) {
		after := *before
		in.apply(&after)
		return &after, nil
	})
}

// DeleteTestimonial removes a testimonial.
func (s *Service) DeleteTestimonial(ctx context.Context, id string) (Result[store.Testimonial], error) {
	return s.testimonials().doDelete(ctx, s, id)
}

// FAQs

func (s *Service) faqs() entityOps[store.FAQ] {
	return entityOps[store.FAQ]{
		kind:   revalidate.EntityFAQ,
		get:    s.store.GetFAQ,
		create: s.store.CreateFAQ,
		update: s.store.UpdateFAQ,
		remove: s.store.DeleteFAQ,
		id:     func(f *store.FAQ) string { return f.ID },
	}
}

// CreateFAQ validates in and stores a new FAQ.
func (s *Service) CreateFAQ(ctx context.Context, in FAQInput) (Result[store.FAQ], error) {
	if err := check(in); err != nil {
		return Result[store.FAQ]{}, err
	}
	f := &store.FAQ{}
	in.apply(f)
	return s.faqs().doCreate(ctx, s, f)
}

// UpdateFAQ replaces the FAQ's fields.
func (s *Service) UpdateFAQ(ctx context.Context, id string, in FAQInput) (Result[store.FAQ], error) {
	if err := check(in); err != nil {
		return Result[store.FAQ]{}, err
	}
	ops := s.faqs()
	return ops.doUpdate(ctx, s, ops.get, id, func(before *store.FAQ) (*store.FAQ, error) {
		after := *before
		in.apply(&after)
		return &after, nil
	})
}

// DeleteFAQ removes an FAQ.
func (s *Service) DeleteFAQ(ctx context.Context, id string) (Result[store.FAQ], error) {
	return s.faqs().doDelete(ctx, s, id)
}

// Process steps

func (s *Service) processSteps() entityOps[store.ProcessStep] {
	return entityOps[store.ProcessStep]{
		kind:   revalidate.EntityProcessStep,
		get:    s.store.GetProcessStep,
		create: s.store.CreateProcessStep,
		update: s.store.UpdateProcessStep,
		remove: s.store.DeleteProcessStep,
		id:     func(p *store.ProcessStep) string { return p.ID },
	}
}

// CreateProcessStep validates in and stores a new process step.
func (s *Service) CreateProcessStep(ctx context.Context, in ProcessStepInput) (Result[store.ProcessStep], error) {
	if err := check(in); err != nil {
		return Result[store.ProcessStep]{}, err
	}
	p := &store.ProcessStep{}
	in.apply(p)
	return s.processSteps().doCreate(ctx, s, p)
}

// UpdateProcessStep replaces the process step's fields.
func (s *Service) UpdateProcessStep(ctx context.Context, id string, in ProcessStepInput) (Result[store.ProcessStep], error) {
	if err := check(in); err != nil {
		return Result[store.ProcessStep]{}, err
	}
	ops := s.processSteps()
	return ops.doUpdate(ctx, s, ops.get, id, func(before *store.ProcessStep) (*store.ProcessStep, error) {
		after := *before
		in.apply(&after)
		return &after, nil
	})
}

// DeleteProcessStep removes a process step.
func (s *Service) DeleteProcessStep(ctx context.Context, id string) (Result[store.ProcessStep], error) {
	return s.processSteps().doDelete(ctx, s, id)
}

// Pages

func (s *Service) pages() entityOps[store.Page] {
	return entityOps[store.Page]{
		kind:   revalidate.EntityPage,
		get:    s.store.GetPage,
		create: s.store.CreatePage,
		update: s.store.UpdatePage,
		remove: s.store.DeletePage,
		id:     func(p *store.Page) string { return p.ID },
	}
}

// CreatePage validates in and stores a new page.
func (s *Service) CreatePage(ctx context.Context, in PageInput) (Result[store.Page], error) {
	if err := check(in); err != nil {
		return Result[store.Page]{}, err
	}
	sl, _, err := resolveSlug(in.Slug, in.Title, "", false)
	if err != nil {
		return Result[store.Page]{}, err
	}

	p := &store.Page{Slug: sl}
	in.apply(p)
	return s.pages().doCreate(ctx, s, p)
}

// UpdatePage replaces the fields of the page currently at pageSlug. A non-empty
// in.Slug renames it; an empty one keeps the current slug.
func (s *Service) UpdatePage(ctx context.Context, pageSlug string, in PageInput) (Result[store.Page], error) {
	if err := check(in); err != nil {
		return Result[store.Page]{}, err
	}
	ops := s.pages()
	return ops.doUpdate(ctx, s, s.store.GetPageBySlug, pageSlug, func(before *store.Page) (*store.Page, error) {
		after := *before
		// A page is addressed by its slug, so a title change never moves it.
		sl, _, err := resolveSlug(in.Slug, in.Title, before.Slug, true)
		if err != nil {
			return nil, err
		}
		after.Slug = sl
		in.apply(&after)
		return &after, nil
	})
}

// DeletePage removes a page by ID.
func (s *Service) DeletePage(ctx context.Context, id string) (Result[store.Page], error) {
	return s.pages().doDelete(ctx, s, id)
}

// Feedback

// SubmitFeedback records a visitor submission. Only the admin feedback list is invalidated.
func (s *Service) SubmitFeedback(ctx context.Context, in FeedbackInput) (Result[store.Feedback], error) {
	if err := check(in); err != nil {
		return Result[store.Feedback]{}, err
	}

	f := &store.Feedback{
		Content:   in.Content,
		Sentiment: in.Sentiment,
		PageURL:   in.PageURL,
		Metadata:  in.Metadata,
	}
	if err := s.store.CreateFeedback(ctx, f); err != nil {
		return Result[store.Feedback]{}, fmt.Errorf("creating feedback: %w", err)
	}

	keys := revalidate.Compute(revalidate.Mutation{Kind: revalidate.EntityFeedback, Op: revalidate.OpCreate, After: f})
	invErr := revalidate.Apply(ctx, s.cache, keys)
	if invErr != nil {
		s.logger.Warn("feedback saved but cache invalidation failed", "error", invErr)
	}
	return Result[store.Feedback]{Data: f, Invalidated: keys, InvalidationErr: invErr}, nil
}

// Contact

// SubmitContact records a contact form message. A filled honeypot is reported
// as success without storing anything, so bots get no signal.
func (s *Service) SubmitContact(ctx context.Context, in ContactInput) (Result[store.ContactSubmission], error) {
	if strings.TrimSpace(in.Website) != "" {
		s.logger.Info("dropped contact submission with filled honeypot")
		return Result[store.ContactSubmission]{Data: &store.ContactSubmission{}}, nil
	}
	if err := check(in); err != nil {
		return Result[store.ContactSubmission]{}, err
	}

	c := &store.ContactSubmission{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Company: strings.TrimSpace(in.Company),
		Message: in.Message,
	}
	if err := s.store.CreateContactSubmission(ctx, c); err != nil {
		return Result[store.ContactSubmission]{}, fmt.Errorf("creating contact submission: %w", err)
	}

	keys := revalidate.Compute(revalidate.Mutation{Kind: revalidate.EntityContact, Op: revalidate.OpCreate, After: c})
	invErr := revalidate.Apply(ctx, s.cache, keys)
	if invErr != nil {
		s.logger.Warn("contact submission saved but cache invalidation failed", "error", invErr)
	}
	return Result[store.ContactSubmission]{Data: c, Invalidated: keys, InvalidationErr: invErr}, nil
}
