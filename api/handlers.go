/*
handlers.go - HTTP API handlers for the reward engine

PURPOSE:
  Exposes the reward lifecycle via REST. Handles request parsing, JSON
  serialization, and delegates everything else to reward.Service.

ENDPOINTS:
  GET   /users/{id}/rewards?at=<timestamp>       Materialize + return the week
  PATCH /users/{id}/rewards/{date}/redeem        Redeem one day's reward

ERROR HANDLING:
  The engine signals error kinds; this layer maps them to statuses:
  - 400: Missing or unparseable date input
  - 404: No collection for the user, or no reward on the target day
  - 409: Future / expired / already-redeemed redemption attempts
  - 500: Store failures

SECURITY NOTE:
  The user id is taken from the path and trusted as-is. Authentication is
  an explicit non-goal of this service.

SEE ALSO:
  - dto.go: Wire types
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/reward-engine/calendar"
	"github.com/warp/reward-engine/reward"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Rewards *reward.Service
}

// NewHandler creates a handler backed by the given engine.
func NewHandler(svc *reward.Service) *Handler {
	return &Handler{Rewards: svc}
}

// =============================================================================
// REWARD HANDLERS
// =============================================================================

// GetWeeklyRewards materializes and returns the user's rewards for the week
// containing the `at` query parameter.
func (h *Handler) GetWeeklyRewards(w http.ResponseWriter, r *http.Request) {
	userID := reward.UserID(chi.URLParam(r, "id"))

	at := r.URL.Query().Get("at")
	ref, err := calendar.ParseTimestamp(at)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing 'at' date", err)
		return
	}

	ctx := r.Context()
	if err := h.Rewards.EnsureWeekPopulated(ctx, userID, ref); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to populate rewards", err)
		return
	}

	rewards, err := h.Rewards.WeekFor(ctx, userID, ref)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rewards", err)
		return
	}

	writeJSON(w, http.StatusOK, DataResponse{Data: toRewardDTOs(rewards)})
}

// RedeemReward redeems the user's reward on the {date} path segment's day.
func (h *Handler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	userID := reward.UserID(chi.URLParam(r, "id"))

	target, err := calendar.ParseTimestamp(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	redeemed, err := h.Rewards.Redeem(r.Context(), userID, target)
	if err != nil {
		writeError(w, redeemStatus(err), "Redemption failed", err)
		return
	}

	writeJSON(w, http.StatusOK, DataResponse{Data: toRewardDTO(redeemed)})
}

// redeemStatus maps a redemption error kind to its HTTP status.
func redeemStatus(err error) int {
	switch {
	case reward.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, reward.ErrFutureRedemption),
		errors.Is(err, reward.ErrExpired),
		errors.Is(err, reward.ErrAlreadyRedeemed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := ErrorBody{Message: message}
	if err != nil {
		body.Details = err.Error()
	}
	writeJSON(w, status, ErrorResponse{Error: body})
}
