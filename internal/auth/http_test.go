// ABOUTME: Tests for HTTP authentication middleware
// ABOUTME: Covers token extraction, validation, role gates and the actor helper

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(got **AuthContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			*got = FromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestHTTPAuthMiddleware_ValidToken(t *testing.T) {
	verifier := newTestVerifier(t)
	token, err := verifier.Generate("alice", RoleEditor, time.Hour)
	require.NoError(t, err)

	var got *AuthContext
	handler := HTTPAuthMiddleware(verifier, nil)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Subject)
	assert.True(t, got.CanEdit())
	assert.False(t, got.IsAdmin())
}

func TestHTTPAuthMiddleware_Rejects(t *testing.T) {
	verifier := newTestVerifier(t)
	handler := HTTPAuthMiddleware(verifier, nil)(okHandler(nil))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"bad token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestRequireAdminHTTP(t *testing.T) {
	gate := RequireAdminHTTP()(okHandler(nil))

	tests := []struct {
		name string
		auth *AuthContext
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"editor", &AuthContext{Subject: "e", Role: RoleEditor}, http.StatusForbidden},
		{"admin", &AuthContext{Subject: "a", Role: RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
			if tt.auth != nil {
				req = req.WithContext(WithAuth(req.Context(), tt.auth))
			}
			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireEditorHTTP(t *testing.T) {
	gate := RequireEditorHTTP()(okHandler(nil))

	tests := []struct {
		role string
		want int
	}{
		{RoleAdmin, http.StatusOK},
		{RoleEditor, http.StatusOK},
		{"viewer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/faqs", nil)
			req = req.WithContext(WithAuth(req.Context(), &AuthContext{Subject: "x", Role: tt.role}))
			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	verifier := newTestVerifier(t)
	token, err := verifier.Generate("alice", RoleAdmin, time.Hour)
	require.NoError(t, err)

	var got *AuthContext
	handler := OptionalAuthMiddleware(verifier)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got, "anonymous request continues without auth")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Subject)
}

func TestActor(t *testing.T) {
	assert.Equal(t, SystemActor, Actor(context.Background()))

	ctx := WithAuth(context.Background(), &AuthContext{Subject: "alice", Role: RoleAdmin})
	assert.Equal(t, "alice", Actor(ctx))
}
