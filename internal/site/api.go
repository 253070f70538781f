// ABOUTME: JSON API handlers: per-entity CRUD, feedback, contact, audit log and navigation
// ABOUTME: Reads are public (scheduled projects hidden); writes need an editor token

package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/2389/folio/internal/auth"
	"github.com/2389/folio/internal/content"
	"github.com/2389/folio/internal/pagecache"
	"github.com/2389/folio/internal/revalidate"
	"github.com/2389/folio/internal/routes"
	"github.com/2389/folio/internal/store"
)

// resource binds one entity's store reads and content writes to the /api/{name} routes.
type resource[T, I any] struct {
	name   string
	tag    string
	list   func(context.Context, store.ListFilter) ([]*T, error)
	get    func(context.Context, string) (*T, error)
	create func(context.Context, I) (content.Result[T], error)
	update func(context.Context, string, I) (content.Result[T], error)
	remove func(context.Context, string) (content.Result[T], error)

	// publicFilter narrows anonymous list requests.
	publicFilter func(*store.ListFilter)
	// visible hides single rows from anonymous readers.
	visible func(*T) bool
}

// registerResource registers GET list/detail, POST, PUT and DELETE for res.
func registerResource[T, I any](s *Server, mux *http.ServeMux, res resource[T, I]) {
	base := "/api/" + res.name
	mux.Handle("GET "+base, s.optionalAuth(listHandler(s, res)))
	mux.Handle("GET "+base+"/{id}", s.optionalAuth(getHandler(s, res)))
	mux.Handle("POST "+base, s.requireEditor(createHandler(s, res)))
	mux.Handle("PUT "+base+"/{id}", s.requireEditor(updateHandler(s, res)))
	mux.Handle("DELETE "+base+"/{id}", s.requireEditor(deleteHandler(s, res)))
}

func canEdit(ctx context.Context) bool {
	a := auth.FromContext(ctx)
	return a != nil && a.CanEdit()
}

// listHandler serves GET /api/{name}. Anonymous requests without a query are
// served through the page cache under the request path.
func listHandler[T, I any](s *Server, res resource[T, I]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r.URL.Query())
		if err != nil {
			s.sendJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		editor := canEdit(r.Context())
		if !editor && res.publicFilter != nil {
			res.publicFilter(&filter)
		}

		render := func(ctx context.Context) (*pagecache.Entry, error) {
			rows, err := res.list(ctx, filter)
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", res.name, err)
			}
			if rows == nil {
				rows = []*T{}
			}
			body, err := json.Marshal(envelope{Success: true, Data: rows})
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", res.name, err)
			}
			return &pagecache.Entry{
				Status:      http.StatusOK,
				ContentType: "application/json",
				Body:        body,
				Tags:        []string{res.tag},
			}, nil
		}

		if editor || r.URL.RawQuery != "" {
			entry, err := render(r.Context())
			if err != nil {
				s.sendError(w, r, err)
				return
			}
			writeEntry(w, entry, false)
			return
		}

		entry, hit, err := s.cache.GetOrRender(r.Context(), r.URL.Path, render)
		if err != nil {
			s.sendError(w, r, err)
			return
		}
		writeEntry(w, entry, hit)
	}
}

func getHandler[T, I any](s *Server, res resource[T, I]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := res.get(r.Context(), r.PathValue("id"))
		if err != nil {
			s.sendError(w, r, err)
			return
		}
		if res.visible != nil && !res.visible(row) && !canEdit(r.Context()) {
			s.sendJSONError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: row})
	}
}

func createHandler[T, I any](s *Server, res resource[T, I]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in I
		if err := decodeBody(w, r, &in); err != nil {
			s.sendJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		result, err := res.create(r.Context(), in)
		if err != nil {
			s.sendError(w, r, err)
			return
		}
		sendResult(w, http.StatusCreated, result)
	}
}

func updateHandler[T, I any](s *Server, res resource[T, I]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in I
		if err := decodeBody(w, r, &in); err != nil {
			s.sendJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		result, err := res.update(r.Context(), r.PathValue("id"), in)
		if err != nil {
			s.sendError(w, r, err)
			return
		}
		sendResult(w, http.StatusOK, result)
	}
}

func deleteHandler[T, I any](s *Server, res resource[T, I]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := res.remove(r.Context(), r.PathValue("id"))
		if err != nil {
			s.sendError(w, r, err)
			return
		}
		sendResult(w, http.StatusOK, result)
	}
}

// parseListFilter reads featured, scheduled, category, tag (repeatable) and limit.
func parseListFilter(q url.Values) (store.ListFilter, error) {
	var f store.ListFilter

	for _, name := range []string{"featured", "scheduled"} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("%s must be true or false", name)
		}
		if name == "featured" {
			f.Featured = store.Bool(b)
		} else {
			f.Scheduled = store.Bool(b)
		}
	}

	f.Category = q.Get("category")
	f.Tags = q["tag"]

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, errors.New("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}

// registerAPIRoutes registers every JSON endpoint.
func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	st := s.store
	svc := s.content

	registerResource(s, mux, resource[store.Project, content.ProjectInput]{
		name:   "projects",
		tag:    revalidate.TagProjects,
		list:   st.ListProjects,
		get:    st.GetProject,
		create: svc.CreateProject,
		update: svc.UpdateProject,
		remove: svc.DeleteProject,
		publicFilter: func(f *store.ListFilter) {
			f.Scheduled = store.Bool(false)
		},
		visible: func(p *store.Project) bool { return !p.Scheduled },
	})
	registerResource(s, mux, resource[store.Service, content.ServiceInput]{
		name:   "services",
		tag:    revalidate.TagServices,
		list:   st.ListServices,
		get:    st.GetService,
		create: svc.CreateService,
		update: svc.UpdateService,
		remove: svc.DeleteService,
	})
	registerResource(s, mux, resource[store.Testimonial, content.TestimonialInput]{
		name:   "testimonials",
		tag:    revalidate.TagTestimonials,
		list:   st.ListTestimonials,
		get:    st.GetTestimonial,
		create: svc.CreateTestimonial,
		update: svc.UpdateTestimonial,
		remove: svc.DeleteTestimonial,
	})
	registerResource(s, mux, resource[store.FAQ, content.FAQInput]{
		name:   "faqs",
		tag:    revalidate.TagFAQs,
		list:   st.ListFAQs,
		get:    st.GetFAQ,
		create: svc.CreateFAQ,
		update: svc.UpdateFAQ,
		remove: svc.DeleteFAQ,
	})
	registerResource(s, mux, resource[store.ProcessStep, content.ProcessStepInput]{
		name:   "process-steps",
		tag:    revalidate.TagProcessSteps,
		list:   st.ListProcessSteps,
		get:    st.GetProcessStep,
		create: svc.CreateProcessStep,
		update: svc.UpdateProcessStep,
		remove: svc.DeleteProcessStep,
	})
	// Pages are addressed by slug for reads and updates, by ID for deletes.
	registerResource(s, mux, resource[store.Page, content.PageInput]{
		name:   "pages",
		tag:    revalidate.TagPages,
		list:   st.ListPages,
		get:    s.pageBySlugOrID,
		create: svc.CreatePage,
		update: svc.UpdatePage,
		remove: svc.DeletePage,
	})

	mux.HandleFunc("POST /api/feedback", s.handleSubmitFeedback)
	mux.Handle("GET /api/feedback", s.requireAdmin(http.HandlerFunc(s.handleListFeedback)))
	mux.HandleFunc("POST /api/contact", s.handleSubmitContact)
	mux.Handle("GET /api/contact", s.requireAdmin(http.HandlerFunc(s.handleListContact)))
	mux.Handle("GET /api/audit", s.requireAdmin(http.HandlerFunc(s.handleListAudit)))
	mux.HandleFunc("POST /api/revalidate", s.handleRevalidate)
	mux.HandleFunc("GET /api/navigation", s.handleNavigation)
}

func (s *Server) pageBySlugOrID(ctx context.Context, key string) (*store.Page, error) {
	p, err := s.store.GetPageBySlug(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return s.store.GetPage(ctx, key)
	}
	return p, err
}

// handleSubmitFeedback handles POST /api/feedback. No auth required.
func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var in content.FeedbackInput
	if err := decodeBody(w, r, &in); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.content.SubmitFeedback(r.Context(), in)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	sendResult(w, http.StatusCreated, result)
}

// handleListFeedback handles GET /api/feedback?limit=N.
func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := s.store.ListFeedback(r.Context(), limit)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items})
}

// contactReceived is the reply to every accepted contact submission, including
// ones dropped by the honeypot.
const contactReceived = "Your message has been received."

// handleSubmitContact handles POST /api/contact. No auth required. The reply
// carries no row data so a dropped submission looks the same as a stored one.
func (s *Server) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var in content.ContactInput
	if err := decodeBody(w, r, &in); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.content.SubmitContact(r.Context(), in); err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: map[string]string{"message": contactReceived}})
}

// handleListContact handles GET /api/contact?limit=N.
func (s *Server) handleListContact(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := s.store.ListContactSubmissions(r.Context(), limit)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items})
}

// handleListAudit handles GET /api/audit with optional actor, action,
// target_type, target_id, since, until (RFC3339) and limit filters.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f store.AuditFilter

	optional := func(name string) *string {
		if v := q.Get(name); v != "" {
			return &v
		}
		return nil
	}
	f.Actor = optional("actor")
	f.TargetType = optional("target_type")
	f.TargetID = optional("target_id")

	if v := q.Get("action"); v != "" {
		action := store.AuditAction(v)
		if !slices.Contains(store.ValidAuditActions, action) {
			s.sendJSONError(w, http.StatusBadRequest, "unknown action "+strconv.Quote(v))
			return
		}
		f.Action = &action
	}

	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{{"since", &f.Since}, {"until", &f.Until}} {
		v := q.Get(bound.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.sendJSONError(w, http.StatusBadRequest, bound.name+" must be an RFC3339 timestamp")
			return
		}
		*bound.dst = &t
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.sendJSONError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		f.Limit = n
	}

	entries, err := s.store.ListAuditLog(r.Context(), f)
	if err != nil {
		s.sendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: entries})
}

// navigationResponse is the data for GET /api/navigation.
type navigationResponse struct {
	Path     string        `json:"path"`
	Current  *routes.Entry `json:"current"`
	Previous *routes.Entry `json:"previous"`
	Next     *routes.Entry `json:"next"`
}

// handleNavigation handles GET /api/navigation?path=/work/some-project.
func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.sendJSONError(w, http.StatusBadRequest, "path is required")
		return
	}

	normalized := routes.Normalize(path)
	adj := routes.Resolve(path)
	resp := navigationResponse{Path: normalized, Previous: adj.Previous, Next: adj.Next}
	if e, ok := routes.Lookup(normalized); ok {
		resp.Current = &e
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: resp})
}
