package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/joe-copilot/internal/auth"
	"github.com/joestump/joe-copilot/internal/copilot"
	"github.com/joestump/joe-copilot/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	BearerAuth *auth.BearerTokenMiddleware
	Orgs       *store.OrgStore
	Pages      *store.PageStore
	Actions    *store.ActionStore
	Catalogs   *store.CatalogStore
	Copilot    *copilot.Service
}

// NewAPIRouter creates a chi sub-router for /api/v1.
// All routes return application/json and pass through bearer authentication.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(jsonContentType)
	r.Use(deps.BearerAuth.Authenticate)

	registerActionTypeRoutes(r)
	registerOrgRoutes(r, deps.Orgs)
	registerPageRoutes(r, deps.Pages)
	registerActionRoutes(r, deps.Pages, deps.Actions)
	registerCatalogRoutes(r, deps.Catalogs)
	registerCopilotRoutes(r, deps.Copilot)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
