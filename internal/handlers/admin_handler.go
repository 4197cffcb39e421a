package handlers

import (
	"net/http"

	"github.com/fitstride/fitstride-api/internal/services"
	"github.com/fitstride/fitstride-api/pkg/logger"
	"github.com/fitstride/fitstride-api/pkg/middleware"
)

// AdminHandler exposes operator-only maintenance entry points. Routes
// using it are mounted behind RequireRole("admin"); there is no shared
// secret bypass.
type AdminHandler struct {
	Backfill *services.BackfillService
}

// NewAdminHandler creates a new instance of AdminHandler.
func NewAdminHandler(backfill *services.BackfillService) *AdminHandler {
	return &AdminHandler{Backfill: backfill}
}

// RunBackfillHandler triggers the legacy-activity reconcile sweep.
// Intended for low-traffic maintenance windows; re-running is safe.
func (h *AdminHandler) RunBackfillHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())

	migrated, err := h.Backfill.Reconcile(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("Backfill run failed")
		http.Error(w, "Backfill failed", http.StatusInternalServerError)
		return
	}

	logger.Log.WithFields(map[string]interface{}{
		"admin":    claims.UserID,
		"migrated": migrated,
	}).Info("Backfill run completed")

	writeJSON(w, http.StatusOK, map[string]interface{}{"migrated": migrated})
}
