package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joestump/joe-copilot/internal/auth"
	"github.com/joestump/joe-copilot/internal/copilot"
	"github.com/joestump/joe-copilot/internal/handler"
	"github.com/joestump/joe-copilot/internal/store"
	"github.com/joestump/joe-copilot/internal/testutil"
)

func newRouter(t *testing.T, tokens []string) http.Handler {
	t.Helper()
	db := testutil.NewTestDB(t)
	catalogs := store.NewCatalogStore(db)
	return handler.NewRouter(handler.Deps{
		DB:         db,
		BearerAuth: auth.NewBearerTokenMiddleware(tokens),
		Orgs:       store.NewOrgStore(db),
		Pages:      store.NewPageStore(db),
		Actions:    store.NewActionStore(db),
		Catalogs:   catalogs,
		Copilot:    &copilot.Service{Catalogs: catalogs, DefaultLanguage: "English"},
	})
}

func TestRouter(t *testing.T) {
	router := newRouter(t, []string{"jc_secret"})

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{name: "health", path: "/healthz", wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "metrics", path: "/metrics", wantStatus: http.StatusOK, wantBody: "go_goroutines"},
		{name: "api without token", path: "/api/v1/orgs", wantStatus: http.StatusUnauthorized},
		{name: "api with token", path: "/api/v1/orgs", token: "jc_secret", wantStatus: http.StatusOK, wantBody: `"organizations"`},
		{name: "unknown route", path: "/nope", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q: %s", tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestRouter_OpenWithoutTokens(t *testing.T) {
	router := newRouter(t, nil)
	req := httptest.NewRequest("GET", "/api/v1/action-types", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when no tokens are configured", rr.Code)
	}
}
