// ABOUTME: Maps a content mutation to the exact cache keys it makes stale
// ABOUTME: Also defines the nuclear key set used by manual revalidation

package revalidate

import (
	"fmt"

	"github.com/2389/folio/internal/routes"
	"github.com/2389/folio/internal/store"
)

// EntityKind names a content entity.
type EntityKind string

const (
	EntityProject     EntityKind = "project"
	EntityService     EntityKind = "service"
	EntityTestimonial EntityKind = "testimonial"
	EntityFAQ         EntityKind = "faq"
	EntityProcessStep EntityKind = "process_step"
	EntityPage        EntityKind = "page"
	EntityFeedback    EntityKind = "feedback"
	EntityContact     EntityKind = "contact"
)

// Op is the kind of write.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Mutation describes one completed write. Before is nil on create; After is nil on delete.
// Before and After hold the store entity pointer for Kind, e.g. *store.Project.
type Mutation struct {
	Kind   EntityKind
	Op     Op
	Before any
	After  any
}

// HomeSlug is the page slug rendered at the site root.
const HomeSlug = "home"

// PagePath returns the public path for a page slug.
func PagePath(slug string) string {
	if slug == HomeSlug {
		return "/"
	}
	return "/" + slug
}

// Compute returns the keys invalidated by m. It is pure.
func Compute(m Mutation) KeySet {
	var ks KeySet

	switch m.Kind {
	case EntityProject:
		before, after := pair[store.Project](m)
		for _, p := range []*store.Project{before, after} {
			if p == nil {
				continue
			}
			if p.Slug != "" {
				ks.AddPath("/work/" + p.Slug)
			}
		}
		ks.AddPath("/work")
		if featured(before, after, func(p *store.Project) bool { return p.Featured }) {
			ks.AddPath("/")
		}
		ks.AddPath("/admin/projects")
		ks.AddPath(editPath("projects", before, after, func(p *store.Project) string { return p.ID }))
		ks.AddPath("/api/projects")
		ks.AddTag(TagProjects)

	case EntityService:
		before, after := pair[store.Service](m)
		ks.AddPath("/services")
		for _, s := range []*store.Service{before, after} {
			if s != nil && s.Slug != "" {
				ks.AddPath("/services/" + s.Slug)
			}
		}
		if featured(before, after, func(s *store.Service) bool { return s.Featured }) {
			ks.AddPath("/")
		}
		ks.AddPath("/admin/services")
		ks.AddPath(editPath("services", before, after, func(s *store.Service) string { return s.ID }))
		ks.AddPath("/api/services")
		ks.AddTag(TagServices)

	case EntityTestimonial:
		before, after := pair[store.Testimonial](m)
		ks.AddPath("/testimonials")
		ks.AddPath("/services")
		if featured(before, after, func(t *store.Testimonial) bool { return t.Featured }) {
			ks.AddPath("/")
		}
		ks.AddPath("/admin/testimonials")
		ks.AddPath("/api/testimonials")
		ks.AddTag(TagTestimonials)

	case EntityFAQ:
		ks.AddPath("/faqs")
		ks.AddPath("/services")
		ks.AddPath("/admin/faqs")
		ks.AddPath("/api/faqs")
		ks.AddTag(TagFAQs)

	case EntityProcessStep:
		ks.AddPath("/process")
		ks.AddPath("/services")
		ks.AddPath("/admin/process-steps")
		ks.AddPath("/api/process-steps")
		ks.AddTag(TagProcessSteps)

	case EntityPage:
		before, after := pair[store.Page](m)
		ks.AddPath("/admin/pages")
		for _, p := range []*store.Page{before, after} {
			if p == nil || p.Slug == "" {
				continue
			}
			ks.AddPath("/admin/pages/" + p.Slug + "/edit")
			ks.AddPath(PagePath(p.Slug))
		}
		ks.AddPath("/api/pages")
		ks.AddTag(TagPages)

	case EntityFeedback:
		ks.AddPath("/admin/feedback")

	case EntityContact:
		ks.AddPath("/admin/contact")
	}

	return ks
}

// Nuclear returns the key set that invalidates the whole site: the root, work and
// admin layouts, every registry path and every named tag. It is deterministic.
func Nuclear() KeySet {
	var ks KeySet
	ks.AddLayout("/")
	ks.AddLayout("/work")
	ks.AddLayout("/admin")
	for _, e := range routes.List() {
		ks.AddPath(e.Path)
	}
	for _, tag := range AllTags {
		ks.AddTag(tag)
	}
	return ks
}

// pair extracts typed snapshots. A snapshot of the wrong type is treated as absent.
func pair[T any](m Mutation) (before, after *T) {
	before, _ = m.Before.(*T)
	after, _ = m.After.(*T)
	return before, after
}

func featured[T any](before, after *T, get func(*T) bool) bool {
	return (before != nil && get(before)) || (after != nil && get(after))
}

func editPath[T any](section string, before, after *T, id func(*T) string) string {
	var v string
	switch {
	case after != nil:
		v = id(after)
	case before != nil:
		v = id(before)
	}
	if v == "" {
		return ""
	}
	return fmt.Sprintf("/admin/%s/%s/edit", section, v)
}
