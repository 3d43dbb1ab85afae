package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/logger"
)

// handleCreateRule processes POST /rule.
//
// The predicate kind tokens are validated here so an unknown kind is rejected
// at creation; argument shapes are not checked, evaluation validates them
// lazily. The stored rule, id included, is echoed back.
func (a *API) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req CreateRuleRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("invalid json payload", slog.String("error", err.Error()))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INVALID_JSON",
			Message: "Invalid JSON payload: " + err.Error(),
		})
		return
	}

	if req.ProductID == uuid.Nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_VALIDATION",
			Message: "product_id is required",
		})
		return
	}
	if req.ProductName == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_VALIDATION",
			Message: "product_name is required",
		})
		return
	}

	rule, err := mapRequestToRule(&req)
	if err != nil {
		log.Warn("rejected rule payload", slog.String("error", err.Error()))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INVALID_RULE",
			Message: err.Error(),
		})
		return
	}

	if err := a.rules.Create(r.Context(), rule); err != nil {
		log.Error("failed to create rule", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INTERNAL",
			Message: "Failed to create rule",
		})
		return
	}

	resp, err := mapRuleToResponse(rule)
	if err != nil {
		log.Error("failed to encode created rule", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INTERNAL",
			Message: "Failed to encode rule",
		})
		return
	}

	log.Info("rule created",
		slog.String("rule_id", rule.ID.String()),
		slog.String("product_id", rule.ProductID.String()),
	)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// handleListRules processes GET /rule and wraps the full listing in a
// "data" envelope.
func (a *API) handleListRules(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	listed, err := a.rules.List(r.Context())
	if err != nil {
		log.Error("failed to list rules", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INTERNAL",
			Message: "Failed to list rules",
		})
		return
	}

	dtos := make([]RuleResponse, 0, len(listed))
	for i := range listed {
		dto, err := mapRuleToResponse(&listed[i])
		if err != nil {
			// A stored blob that cannot be decoded should not hide the
			// rest of the listing.
			log.Warn("skipping unreadable rule in listing",
				slog.String("rule_id", listed[i].ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		dtos = append(dtos, dto)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RuleListResponse{Data: dtos})
}

// handleDeleteRule processes DELETE /rule/{productId}. Deleting a product
// with no rules still succeeds; the operation is idempotent.
func (a *API) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INVALID_PRODUCT_ID",
			Message: "productId must be a UUID",
		})
		return
	}

	if err := a.rules.DeleteByProductID(r.Context(), productID); err != nil {
		log.Error("failed to delete rules",
			slog.String("product_id", productID.String()),
			slog.String("error", err.Error()),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INTERNAL",
			Message: "Failed to delete rules",
		})
		return
	}

	log.Info("rules deleted", slog.String("product_id", productID.String()))
	render.NoContent(w, r)
}

// handleRuleStats processes GET /rule/stats. Every stored rule appears in
// the answer; rules that never fired report zero.
func (a *API) handleRuleStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	listed, err := a.rules.List(r.Context())
	if err != nil {
		log.Error("failed to list rules for stats", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Code:    "ERR_INTERNAL",
			Message: "Failed to list rule stats",
		})
		return
	}

	out := make([]RuleStat, 0, len(listed))
	for i := range listed {
		count, err := a.tracker.Count(r.Context(), listed[i].ID)
		if err != nil {
			log.Error("failed to read fire count",
				slog.String("rule_id", listed[i].ID.String()),
				slog.String("error", err.Error()),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{
				Code:    "ERR_INTERNAL",
				Message: "Failed to read rule stats",
			})
			return
		}
		out = append(out, RuleStat{RuleID: listed[i].ID, Count: count})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RuleStatsResponse{Stats: out})
}
