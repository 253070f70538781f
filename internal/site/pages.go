// ABOUTME: Public page handlers rendered through the page cache
// ABOUTME: Each render records the data tags it read so tag invalidation reaches it

package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/2389/folio/internal/pagecache"
	"github.com/2389/folio/internal/revalidate"
	"github.com/2389/folio/internal/routes"
	"github.com/2389/folio/internal/slug"
	"github.com/2389/folio/internal/store"
)

// errPageNotFound is returned by a render when the path has no content. It is
// never cached.
var errPageNotFound = errors.New("page not found")

// homeFeatureLimit caps each featured section on the home page.
const homeFeatureLimit = 6

// pageRender builds one public page.
type pageRender func(ctx context.Context, r *http.Request, data *pageData) (template string, tags []string, err error)

// registerPageRoutes registers the public HTML pages.
func (s *Server) registerPageRoutes(mux *http.ServeMux) {
	mux.Handle("GET /{$}", s.page(s.renderHome))
	mux.Handle("GET /work", s.page(s.renderWork))
	mux.Handle("GET /work/{slug}", s.page(s.renderProject))
	mux.Handle("GET /services", s.page(s.renderServices))
	mux.Handle("GET /services/{slug}", s.page(s.renderService))
	mux.Handle("GET /testimonials", s.page(s.renderTestimonials))
	mux.Handle("GET /faqs", s.page(s.renderFAQs))
	mux.Handle("GET /process", s.page(s.renderProcess))
	mux.Handle("GET /{slug}", s.page(s.renderStoredPage))
}

// page wraps a render in the page cache. The cache key is the request path
// without query.
func (s *Server) page(render pageRender) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		entry, hit, err := s.cache.GetOrRender(r.Context(), path, func(ctx context.Context) (*pagecache.Entry, error) {
			data := s.newPageData(path)
			name, tags, err := render(ctx, r, data)
			if err != nil {
				return nil, err
			}
			body, err := s.views.render(name, data)
			if err != nil {
				return nil, err
			}
			return &pagecache.Entry{
				Status:      http.StatusOK,
				ContentType: "text/html; charset=utf-8",
				Body:        body,
				Tags:        tags,
			}, nil
		})

		switch {
		case errors.Is(err, errPageNotFound):
			s.renderNotFound(w, path)
		case err != nil:
			s.logger.Error("failed to render page", "path", path, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		default:
			writeEntry(w, entry, hit)
		}
	})
}

func (s *Server) newPageData(path string) *pageData {
	data := &pageData{
		SiteTitle: s.config.Site.Title,
		Path:      path,
		Nav:       routes.List(),
		Adjacent:  routes.Resolve(path),
	}
	if e, ok := routes.Lookup(routes.Normalize(path)); ok {
		data.Title = e.Title
	}
	return data
}

func (s *Server) renderNotFound(w http.ResponseWriter, path string) {
	data := s.newPageData(path)
	data.Title = "Not found"
	body, err := s.views.render("notfound", data)
	if err != nil {
		s.logger.Error("failed to render not found page", "error", err)
		http.NotFound(w, nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(body)
}

// writeEntry writes a cached or freshly rendered response.
func writeEntry(w http.ResponseWriter, entry *pagecache.Entry, hit bool) {
	w.Header().Set("Content-Type", entry.ContentType)
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(entry.Status)
	_, _ = w.Write(entry.Body)
}

// publicProjects lists projects visible to visitors.
func publicProjects(f store.ListFilter) store.ListFilter {
	f.Scheduled = store.Bool(false)
	return f
}

func (s *Server) renderHome(ctx context.Context, r *http.Request, data *pageData) (string, []string, error) {
	var err error
	featured := store.ListFilter{Featured: store.Bool(true), Limit: homeFeatureLimit}

	if data.Projects, err = s.store.ListProjects(ctx, publicProjects(featured)); err != nil {
		return "", nil, fmt.Errorf("listing featured projects: %w", err)
	}
	if data.Services, err = s.store.ListServices(ctx, featured); err != nil {
		return "", nil, fmt.Errorf("listing featured services: %w", err)
	}
	if data.Testimonials, err = s.store.ListTestimonials(ctx, featured); err != nil {
		return "", nil, fmt.Errorf("listing featured testimonials: %w", err)
	}

	home, err := s.store.GetPageBySlug(ctx, revalidate.HomeSlug)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return "", nil, fmt.Errorf("loading home page: %w", err)
	default:
		data.Description = home.MetaDescription
		if data.Body, err = s.views.markdown(home.Content); err != nil {
			return "", nil, err
		}
	}

	return "home", []string{revalidate.TagProjects, revalidate.TagServices, revalidate.TagTestimonials, revalidate.TagPages}, nil
}

func (s *Server) renderWork(ctx context.Context, r *http.Request, data *pageData) (string, []string, error) {
	var err error
	if data.Projects, err = s.store.ListProjects(ctx, publicProjects(store.ListFilter{})); err != nil {
		return "", nil, fmt.Errorf("listing projects: %w", err)
	}
	return "work", []string{revalidate.TagProjects}, nil
}

func (s *Server) renderProject(ctx context.Context, r *http.Request, data *pageData) (string, []string, error) {
	sl := r.PathValue("slug")
	if !slug.Valid(sl) {
		return "", nil, errPageNotFound
	}

	p, err := s.store.GetProjectBySlug(ctx, sl)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, errPageNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("loading project %s: %w", sl, err)
	}
	if p.Scheduled {
		return "", nil, errPageNotFound
	}

	data.Project = p
	data.Title = p.Title
	data.Description = p.Description
	if data.Body, err = s.views.markdown(p.Content); err != nil {
		return "", nil, err
	}

	all, err := s.store.ListTestimonials(ctx, store.ListFilter{})
	if err != nil {
		return "", nil, fmt.Errorf("listing testimonials: %w", err)
	}
	for _, t := range all {
		if t.ProjectID == p.ID {
			data.Testimonials = append(data.Testimonials, t)
		}
	}

	return "project", []string{revalidate.TagProjects, revalidate.TagTestimonials}, nil
}

func (s *Server) renderServices(ctx context.Context, r *http.Request, data *pageData) (string, []string, error) {
	var err error
	if data.Services, err = s.store.ListServices(ctx, store.ListFilter{}); err != nil {
		return "", nil, fmt.Errorf("listing services: %w", err)
	}
	if data.Steps, err = s.store.ListProcessSteps(ctx, store.ListFilter{}); err != nil {
		return "", nil, fmt.Errorf("listing process steps: %w", err)
	}
	if data.FAQs, err = s.store.ListFAQs(ctx, store.ListFilter{}); err != nil {
		return "", nil, fmt.Errorf("listing faqs: %w", err)
	}
	if data.Testimonials, err = s.store.ListTestimonials(ctx, store.ListFilter{Featured: store.Bool(true)}); err != nil {
		return "", nil, fmt.Errorf("listing testimonials: %w", err)
	}
	return "services", []string{revalidate.TagServices, revalidate.TagProcessSteps, revalidate.TagFAQs, revalidate.TagTestimonials}, nil
}

func (s *Server) renderService(ctx context.Context, r *http.Request, data *pageData) (string, []string, error) {
	sl := r.PathValue("slug")
	if !slug.Valid(sl) {
		return "", nil, errPageNotFound
	}

	sv, err := s.store.GetServiceBySlug(ctx, sl)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, errPageNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("loading service %s: %w", sl, err)
	}

	data.Service = sv
	data.Title = sv.Title
	if data.Body, err = s.views.markdown(sv.Description); err != nil {
		return "", nil, err
	}
	return "service", []string{revalidate.TagServices}, nil
}

func (s *Server) renderTestimonials(ctx context.Context, r *http.Request, data *pageData) (string, []string, error) {
	var err error
	if data.Testimonials, err = s.store.ListTestimonials(ctx, store.ListFilter{}); err != nil {
		return "", nil, fmt.Errorf("listing testimonials: %w", err)
	}
	return "testimonials", []string{revalidate.TagTestimonials}, nil
}

func (s *Server) renderFAQs(ctx context.Context, r *http.Request, data *pageData) (string, []string, error) {
	var err error
	if data.FAQs, err = s.store.ListFAQs(ctx, store.ListFilter{}); err != nil {
		return "", nil, fmt.Errorf("listing faqs: %w", err)
	}
	return "faqs", []string{revalidate.TagFAQs}, nil
}

func (s *Server) renderProcess(ctx context.Context, r *http.Request, data *pageData) (string, []string, error) {
	var err error
	if data.Steps, err = s.store.ListProcessSteps(ctx, store.ListFilter{}); err != nil {
		return "", nil, fmt.Errorf("listing process steps: %w", err)
	}
	return "process", []string{revalidate.TagProcessSteps}, nil
}

// renderStoredPage serves /{slug} from the pages table. Registry pages without
// a stored body (about, playground, contact) still render with their title.
func (s *Server) renderStoredPage(ctx context.Context, r *http.Request, data *pageData) (string, []string, error) {
	sl := r.PathValue("slug")
	if !slug.Valid(sl) || sl == revalidate.HomeSlug {
		return "", nil, errPageNotFound
	}

	p, err := s.store.GetPageBySlug(ctx, sl)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if _, ok := routes.Lookup("/" + sl); !ok {
			return "", nil, errPageNotFound
		}
	case err != nil:
		return "", nil, fmt.Errorf("loading page %s: %w", sl, err)
	default:
		data.Title = p.Title
		data.Description = p.MetaDescription
		if data.Body, err = s.views.markdown(p.Content); err != nil {
			return "", nil, err
		}
	}
	return "page", []string{revalidate.TagPages}, nil
}
