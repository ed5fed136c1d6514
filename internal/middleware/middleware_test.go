package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	errs "checkers_backend/internal/errors"
)

type staticResolver map[string]string

func (s staticResolver) PlayerIDBySession(_ context.Context, sessionID string) (string, error) {
	id, ok := s[sessionID]
	if !ok {
		return "", errs.ErrSessionNotFound
	}
	return id, nil
}

func TestRequireSession(t *testing.T) {
	var got string
	h := RequireSession(staticResolver{"s1": "p1"}, zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PlayerID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		name   string
		cookie *http.Cookie
		status int
		player string
	}{
		{"no cookie", nil, http.StatusUnauthorized, ""},
		{"unknown session", &http.Cookie{Name: SessionCookie, Value: "s2"}, http.StatusUnauthorized, ""},
		{"live session", &http.Cookie{Name: SessionCookie, Value: "s1"}, http.StatusTeapot, "p1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.player, got)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/games", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
