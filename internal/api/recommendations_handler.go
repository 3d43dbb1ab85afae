package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/projectteamwork/finrec/internal/logger"
	"github.com/projectteamwork/finrec/internal/recommender"
	"github.com/projectteamwork/finrec/internal/rules"
)

// handleRecommendations processes GET /api/recommendations/dynamic/{userId}.
func (a *API) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	recs, err := a.recommender.Recommend(r.Context(), userID)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidIdentifier) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{
				Code:    "ERR_INVALID_USER_ID",
				Message: "userId must be a UUID",
			})
			return
		}

		log.Error("failed to build recommendations",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INTERNAL",
			Message: "Failed to build recommendations",
		})
		return
	}

	if recs == nil {
		recs = []recommender.Recommendation{}
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, RecommendationsResponse{
		UserID:          userID,
		Recommendations: recs,
	})
}

// handleUserLookup processes GET /api/users/lookup?full_name=First+Last.
// Names matching zero or several users answer 404: the caller asked for one
// specific person and anything else would be a guess.
func (a *API) handleUserLookup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	fullName := r.URL.Query().Get("full_name")
	if fullName == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_MISSING_QUERY_PARAM",
			Message: "full_name query parameter is required",
		})
		return
	}

	id, found, err := a.resolver.Resolve(r.Context(), fullName)
	if err != nil {
		log.Error("failed to resolve user", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INTERNAL",
			Message: "Failed to resolve user",
		})
		return
	}
	if !found {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_USER_NOT_FOUND",
			Message: "No single user matches the given name",
		})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, UserLookupResponse{UserID: id, FullName: fullName})
}
