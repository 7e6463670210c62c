package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joestump/joe-copilot/internal/api"
	"github.com/joestump/joe-copilot/internal/auth"
	"github.com/joestump/joe-copilot/internal/catalog"
	"github.com/joestump/joe-copilot/internal/copilot"
	"github.com/joestump/joe-copilot/internal/llm"
	"github.com/joestump/joe-copilot/internal/prompt"
	"github.com/joestump/joe-copilot/internal/store"
	"github.com/joestump/joe-copilot/internal/testutil"
)

const testToken = "jc_test-token"

// testEnv holds the stores and router used by API integration tests.
type testEnv struct {
	Router   http.Handler
	Orgs     *store.OrgStore
	Pages    *store.PageStore
	Actions  *store.ActionStore
	Catalogs *store.CatalogStore
}

// fakeLLM answers every completion with a canned reply or error.
type fakeLLM struct {
	content string
	err     error
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) Complete(_ context.Context, _ []prompt.Message) (*llm.Completion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Content: f.content, Model: "fake-1"}, nil
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores. client may be nil.
func newTestEnv(t *testing.T, client llm.Client) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	env := &testEnv{
		Orgs:     store.NewOrgStore(db),
		Pages:    store.NewPageStore(db),
		Actions:  store.NewActionStore(db),
		Catalogs: store.NewCatalogStore(db),
	}
	svc := &copilot.Service{
		Catalogs:        env.Catalogs,
		LLM:             client,
		Assembler:       prompt.Assembler{Now: func() time.Time { return time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC) }},
		DefaultLanguage: "English",
	}
	env.Router = api.NewAPIRouter(api.Deps{
		BearerAuth: auth.NewBearerTokenMiddleware([]string{testToken}),
		Orgs:       env.Orgs,
		Pages:      env.Pages,
		Actions:    env.Actions,
		Catalogs:   env.Catalogs,
		Copilot:    svc,
	})
	return env
}

// seedShop imports a small two-page catalog and returns its organization.
func seedShop(t *testing.T, env *testEnv) *store.Organization {
	t.Helper()
	org, err := env.Catalogs.Import(context.Background(), catalog.Catalog{
		Org: catalog.OrgInfo{Name: "Shop", Description: "An online shop"},
		Pages: []catalog.Page{
			{Name: "Items", Description: "Browse items", Actions: []catalog.Action{{
				Name: "listItems", Description: "List items", Path: "/items",
				Parameters: []catalog.Parameter{{Name: "q", In: "query", Required: true, Schema: &catalog.Schema{Type: catalog.TypeSet{"string"}}}},
			}}},
			{Name: "Help", Description: "Support"},
		},
	})
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return org
}

// do sends an authenticated request with an optional JSON body.
func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	var body api.ErrorResponse
	decode(t, rr, &body)
	if body.Code != code {
		t.Errorf("code = %q, want %q", body.Code, code)
	}
}
