package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fitstride/fitstride-api/internal/services"
	"github.com/fitstride/fitstride-api/pkg/logger"
	"github.com/fitstride/fitstride-api/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendHandler manages HTTP endpoints for the social graph.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// SendFriendRequestHandler allows a user to send a friend request.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	requesterID, _ := primitive.ObjectIDFromHex(claims.UserID)

	request, err := h.Service.SendRequest(r.Context(), requesterID, receiverID)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to send friend request from %s", claims.UserID)
		writeServiceError(w, err)
		return
	}

	logger.Log.Infof("User %s sent a friend request to %s", claims.UserID, receiverID.Hex())
	writeJSON(w, http.StatusCreated, request)
}

// GetPendingRequestsHandler shows all incoming friend requests with
// each requester's public profile.
func (h *FriendHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	requests, err := h.Service.ListPendingReceived(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to get pending requests")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// RespondToFriendRequestHandler allows the receiver to accept or
// decline a pending request.
func (h *FriendHandler) RespondToFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requestID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.Respond(r.Context(), userID, requestID, body.Accept); err != nil {
		logger.Log.WithError(err).Warnf("Failed to respond to friend request %s", requestID.Hex())
		writeServiceError(w, err)
		return
	}

	logger.Log.Infof("User %s responded to friend request %s (accepted: %v)", claims.UserID, requestID.Hex(), body.Accept)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend request response recorded"})
}

// BlockUserHandler blocks another user, whatever the current state of
// the relationship.
func (h *FriendHandler) BlockUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.Block(r.Context(), userID, otherID); err != nil {
		logger.Log.WithError(err).Warnf("Failed to block user %s", otherID.Hex())
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User blocked"})
}

// GetFriendsHandler returns the caller's accepted friends.
func (h *FriendHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	friends, err := h.Service.ListFriends(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Errorf("Failed to fetch friends for user %s", claims.UserID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, friends)
}
