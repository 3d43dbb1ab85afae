package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/projectteamwork/finrec/internal/logger"
	"github.com/projectteamwork/finrec/internal/observability"
)

// handleClearCaches processes POST /management/clear-caches. Every cache
// registered at boot is swept; a partial sweep is reported as an error so
// operators never assume a clean slate they do not have.
func (a *API) handleClearCaches(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	observability.CacheClearsTotal.Inc()

	if err := a.registry.ClearAll(r.Context()); err != nil {
		log.Error("cache sweep incomplete", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_PARTIAL_CLEAR",
			Message: "One or more caches could not be cleared",
		})
		return
	}

	log.Info("all caches cleared")
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "caches cleared"})
}

// handleInfo processes GET /management/info.
func (a *API) handleInfo(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, InfoResponse{
		Name:    a.build.Name,
		Version: a.build.Version,
	})
}
