// ABOUTME: Manual full-site revalidation endpoint guarded by a shared secret
// ABOUTME: Drops every cached page, warms configured paths and pings the deploy hook

package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2389/folio/internal/auth"
)

// defaultWarmPaths are fetched after a full revalidation when none are configured.
var defaultWarmPaths = []string{"/work"}

// deployHookTimeout bounds the deploy hook POST.
const deployHookTimeout = 10 * time.Second

// revalidateRequest is the optional JSON body for POST /api/revalidate.
type revalidateRequest struct {
	Secret string `json:"secret"`
}

// revalidateResponse is the data for a successful full revalidation.
type revalidateResponse struct {
	Revalidated int      `json:"revalidated"`
	Warmed      []string `json:"warmed"`
	DeployHook  string   `json:"deploy_hook"`
	Timestamp   string   `json:"timestamp"`
}

// handleRevalidate handles POST /api/revalidate. The secret comes from the JSON
// body or the ?secret= query parameter. The body may be chunked; an empty body
// means no secret.
func (s *Server) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	provided := r.URL.Query().Get("secret")
	if provided == "" && r.Body != nil && r.Body != http.NoBody {
		var req revalidateRequest
		err := decodeBody(w, r, &req)
		if err != nil && !errors.Is(err, errEmptyBody) {
			s.sendJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		provided = req.Secret
	}

	if !auth.SecretMatches(provided, s.config.Revalidation.Secret) {
		revalidationsTotal.WithLabelValues("unauthorized").Inc()
		s.logger.Warn("rejected revalidation request", "remote", r.RemoteAddr)
		s.sendJSONError(w, http.StatusUnauthorized, "invalid secret")
		return
	}

	ctx := r.Context()
	keys, invErr := s.content.RevalidateAll(ctx)

	resp := revalidateResponse{
		Revalidated: keys.Len(),
		Warmed:      s.warm(ctx),
		DeployHook:  s.triggerDeployHook(ctx),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	body := envelope{Success: true, Data: resp}
	if invErr != nil {
		revalidationsTotal.WithLabelValues("partial").Inc()
		body.Warning = "some cache keys could not be invalidated: " + invErr.Error()
	} else {
		revalidationsTotal.WithLabelValues("ok").Inc()
	}
	writeJSON(w, http.StatusOK, body)
}

// warm renders each warm path in-process so the next visitor hits the cache.
// Failures are logged and skipped.
func (s *Server) warm(ctx context.Context) []string {
	paths := s.config.Revalidation.WarmPaths
	if len(paths) == 0 {
		paths = defaultWarmPaths
	}

	warmed := make([]string, 0, len(paths))
	for _, p := range paths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p, nil)
		if err != nil {
			s.logger.Warn("skipping warm path", "path", p, "error", err)
			continue
		}
		rec := &statusRecorder{header: make(http.Header)}
		s.handler.ServeHTTP(rec, req)
		if rec.status != http.StatusOK {
			s.logger.Warn("warm fetch failed", "path", p, "status", rec.status)
			continue
		}
		warmed = append(warmed, p)
	}
	return warmed
}

// triggerDeployHook POSTs to the configured deploy hook. It reports
// "skipped", "triggered" or "failed" and never fails the request.
func (s *Server) triggerDeployHook(ctx context.Context) string {
	hook := s.config.Revalidation.DeployHookURL
	if hook == "" {
		return "skipped"
	}

	ctx, cancel := context.WithTimeout(ctx, deployHookTimeout)
	defer cancel()

	if err := s.postHook(ctx, hook); err != nil {
		s.logger.Warn("deploy hook failed", "error", err)
		return "failed"
	}
	s.logger.Info("deploy hook triggered")
	return "triggered"
}

func (s *Server) postHook(ctx context.Context, hook string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.hookClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting deploy hook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deploy hook returned status %d", resp.StatusCode)
	}
	return nil
}

// statusRecorder is a ResponseWriter that keeps only the status code.
type statusRecorder struct {
	header http.Header
	status int
}

func (r *statusRecorder) Header() http.Header { return r.header }

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return len(b), nil
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}
