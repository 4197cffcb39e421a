package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fitstride/fitstride-api/internal/models"
	"github.com/fitstride/fitstride-api/internal/services"
	"github.com/fitstride/fitstride-api/pkg/logger"
	"github.com/fitstride/fitstride-api/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityHandler handles HTTP requests for workout activities.
type ActivityHandler struct {
	Service *services.ActivityService
}

// NewActivityHandler creates a new instance of ActivityHandler.
func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// CreateActivityHandler logs a new workout for the authenticated user.
func (h *ActivityHandler) CreateActivityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var activity models.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}
	activity.UserID = userID

	created, err := h.Service.CreateActivity(r.Context(), &activity)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to create activity")
		writeServiceError(w, err)
		return
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id":     claims.UserID,
		"activity_id": created.ID.Hex(),
	}).Info("Activity created")

	writeJSON(w, http.StatusCreated, created)
}

// GetActivityHandler fetches one of the caller's activities.
func (h *ActivityHandler) GetActivityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	activityID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid activity ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	activity, err := h.Service.GetActivity(r.Context(), userID, activityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

// ListActivitiesHandler returns the caller's activity history.
func (h *ActivityHandler) ListActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	activities, err := h.Service.ListActivities(r.Context(), userID, limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list activities")
		writeServiceError(w, err)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	writeJSON(w, http.StatusOK, activities)
}

// UpdateActivityHandler edits one of the caller's activities. The
// aggregates follow via delta, including the debit/credit pair when
// the edit moves the record to another month.
func (h *ActivityHandler) UpdateActivityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	activityID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid activity ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	var upd models.ActivityUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateActivity(r.Context(), userID, activityID, &upd)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to update activity %s", activityID.Hex())
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteActivityHandler removes one of the caller's activities and
// debits the aggregates with its stored values.
func (h *ActivityHandler) DeleteActivityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	activityID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid activity ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.DeleteActivity(r.Context(), userID, activityID); err != nil {
		logger.Log.WithError(err).Warnf("Failed to delete activity %s", activityID.Hex())
		writeServiceError(w, err)
		return
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id":     claims.UserID,
		"activity_id": activityID.Hex(),
	}).Info("Activity deleted")

	writeJSON(w, http.StatusOK, map[string]string{"message": "Activity deleted"})
}
