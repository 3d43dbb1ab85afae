// Package api implements the REST surface of the recommendation service:
// dynamic rule management, per-user recommendations, fire-count stats, user
// lookup and the cache administration endpoints.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/projectteamwork/finrec/internal/cache"
	"github.com/projectteamwork/finrec/internal/recommender"
	"github.com/projectteamwork/finrec/internal/stats"
	"github.com/projectteamwork/finrec/internal/store"
	"github.com/projectteamwork/finrec/internal/userlookup"
)

// BuildInfo identifies the running binary on the management info endpoint.
type BuildInfo struct {
	Name    string
	Version string
}

// API holds the router and the service dependencies. Dependencies are
// injected so handlers can be exercised with fakes in tests.
type API struct {
	Router *chi.Mux

	rules       store.Repository
	recommender *recommender.Service
	tracker     *stats.Tracker
	resolver    userlookup.Resolver
	registry    *cache.Registry
	build       BuildInfo
	logger      *slog.Logger
}

// NewAPI creates the API and registers all routes. Every dependency except
// the logger is required.
func NewAPI(
	rules store.Repository,
	rec *recommender.Service,
	tracker *stats.Tracker,
	resolver userlookup.Resolver,
	registry *cache.Registry,
	build BuildInfo,
	logger *slog.Logger,
) *API {
	if rules == nil {
		panic("api: rule repository cannot be nil")
	}
	if rec == nil {
		panic("api: recommender service cannot be nil")
	}
	if tracker == nil {
		panic("api: stats tracker cannot be nil")
	}
	if resolver == nil {
		panic("api: user resolver cannot be nil")
	}
	if registry == nil {
		panic("api: cache registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &API{
		Router:      chi.NewRouter(),
		rules:       rules,
		recommender: rec,
		tracker:     tracker,
		resolver:    resolver,
		registry:    registry,
		build:       build,
		logger:      logger,
	}

	a.configureRoutes()
	return a
}

// configureRoutes registers the global middleware stack and the endpoints.
func (a *API) configureRoutes() {
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(RequestLogger(a.logger))
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(render.SetContentType(render.ContentTypeJSON))

	a.Router.Get("/health", a.handleHealthCheck)

	a.Router.Route("/rule", func(r chi.Router) {
		r.Post("/", a.handleCreateRule)
		r.Get("/", a.handleListRules)
		r.Get("/stats", a.handleRuleStats)
		r.Delete("/{productId}", a.handleDeleteRule)
	})

	a.Router.Route("/api", func(r chi.Router) {
		r.Get("/recommendations/dynamic/{userId}", a.handleRecommendations)
		r.Get("/users/lookup", a.handleUserLookup)
	})

	a.Router.Route("/management", func(r chi.Router) {
		r.Post("/clear-caches", a.handleClearCaches)
		r.Get("/info", a.handleInfo)
	})
}

// handleHealthCheck reports HTTP serving capability. Deep dependency checks
// live on the observability server's readiness probe.
func (a *API) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}
