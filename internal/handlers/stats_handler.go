package handlers

import (
	"net/http"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/fitstride/fitstride-api/internal/services"
	"github.com/fitstride/fitstride-api/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatsHandler serves the caller's aggregate totals.
type StatsHandler struct {
	Service *services.StatsService
}

// NewStatsHandler creates a new instance of StatsHandler.
func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{Service: service}
}

// GetAllTimeStatsHandler returns the caller's all-time totals.
func (h *StatsHandler) GetAllTimeStatsHandler(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, models.AllTimePeriod)
}

// GetPeriodStatsHandler returns the caller's totals for one month.
// Users with no activity in the period get a zeroed document, not 404.
func (h *StatsHandler) GetPeriodStatsHandler(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, mux.Vars(r)["period"])
}

func (h *StatsHandler) serveStats(w http.ResponseWriter, r *http.Request, period string) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	stats, err := h.Service.GetStats(r.Context(), userID, period)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
