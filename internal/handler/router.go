package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/joestump/joe-copilot/docs/swagger"
	"github.com/joestump/joe-copilot/internal/api"
	"github.com/joestump/joe-copilot/internal/auth"
	"github.com/joestump/joe-copilot/internal/copilot"
	"github.com/joestump/joe-copilot/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	DB         *sqlx.DB
	BearerAuth *auth.BearerTokenMiddleware
	Orgs       *store.OrgStore
	Pages      *store.PageStore
	Actions    *store.ActionStore
	Catalogs   *store.CatalogStore
	Copilot    *copilot.Service
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", health(deps.DB))
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI, no auth required.
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	r.Mount("/api/v1", api.NewAPIRouter(api.Deps{
		BearerAuth: deps.BearerAuth,
		Orgs:       deps.Orgs,
		Pages:      deps.Pages,
		Actions:    deps.Actions,
		Catalogs:   deps.Catalogs,
		Copilot:    deps.Copilot,
	}))

	return r
}

// health reports 200 while the database answers a ping.
func health(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
