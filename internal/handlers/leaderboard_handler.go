package handlers

import (
	"net/http"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/fitstride/fitstride-api/internal/services"
	"github.com/fitstride/fitstride-api/pkg/logger"
	"github.com/fitstride/fitstride-api/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeaderboardHandler serves the ranked period views.
type LeaderboardHandler struct {
	Service *services.LeaderboardService
}

// NewLeaderboardHandler creates a new instance of LeaderboardHandler.
func NewLeaderboardHandler(service *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{Service: service}
}

// GetLeaderboardHandler returns the leaderboard for one month.
// ?scope=global (default) or ?scope=friends; friends scope ranks the
// caller and their accepted friends only.
func (h *LeaderboardHandler) GetLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	period := mux.Vars(r)["period"]
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = models.ScopeGlobal
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	entries, err := h.Service.GetLeaderboard(r.Context(), period, scope, userID)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to build %s leaderboard for %s", scope, period)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"period":  period,
		"scope":   scope,
		"entries": entries,
	})
}
