// ABOUTME: JSON response envelope and error-to-status mapping for the site API
// ABOUTME: Every API response is {success, data|error, errors?, warning?}

package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/2389/folio/internal/content"
	"github.com/2389/folio/internal/store"
)

// maxBodyBytes caps admin request bodies.
const maxBodyBytes = 1 << 20

// errEmptyBody is returned by decodeBody when the body holds no JSON value.
var errEmptyBody = errors.New("request body is empty")

// envelope is the JSON shape of every API response.
type envelope struct {
	Success     bool              `json:"success"`
	Data        any               `json:"data,omitempty"`
	Error       string            `json:"error,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
	Warning     string            `json:"warning,omitempty"`
	Invalidated []string          `json:"invalidated,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Error: message})
}

// sendError maps a service or store error to a status code. Unknown errors are
// logged and reported as 500 without detail.
func (s *Server) sendError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, envelope{Error: "validation failed", Errors: verr.Fields})
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		s.sendJSONError(w, http.StatusConflict, "already exists")
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// sendResult writes a successful write. An invalidation failure becomes a warning.
func sendResult[T any](w http.ResponseWriter, status int, res content.Result[T]) {
	body := envelope{
		Success:     true,
		Data:        res.Data,
		Invalidated: res.Invalidated.Strings(),
	}
	if res.InvalidationErr != nil {
		body.Warning = "saved, but some cached pages could not be refreshed: " + res.InvalidationErr.Error()
	}
	writeJSON(w, status, body)
}

// decodeBody parses a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
