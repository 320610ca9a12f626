package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Nikhilsuthar09/vtrip-api/api"
	"github.com/Nikhilsuthar09/vtrip-api/config"
	"github.com/Nikhilsuthar09/vtrip-api/databases"
	"github.com/Nikhilsuthar09/vtrip-api/models"
)

// JoinRequest struct mostly used for mocking tests
type JoinRequest struct {
	TDB  databases.TripDatabase
	UDB  databases.UserDatabase
	NDB  databases.NotificationDatabase
	RQDB databases.JoinRequestDatabase
}

type submitJoinRequest struct {
	TripID       string `json:"tripId"`
	RequesterUID string `json:"requesterUid"`
}

type ownerContactResponse struct {
	Token       string `json:"token"`
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Destination string `json:"destination"`
}

type resolveJoinRequest struct {
	Decision string `json:"decision"`
}

// SubmitJoinRequestHandler files a join request against a trip code. The
// owner gets an inbox notification and the requester gets a pending-request
// record; both docs use deterministic ids so a resubmit overwrites rather
// than duplicates.
func (j JoinRequest) SubmitJoinRequestHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var req submitJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if !ValidRoomCode(req.TripID) || req.RequesterUID == "" {
		config.ErrorStatus("invalid trip code or requester id", http.StatusBadRequest, w, errInvalidInput)
		return
	}

	trip, err := j.TDB.FindOne(ctx, bson.M{"_id": req.TripID})
	if err != nil {
		config.ErrorStatus("trip not found", http.StatusNotFound, w, err)
		return
	}

	requester, err := j.UDB.FindOne(ctx, bson.M{"_id": req.RequesterUID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	// membership check happens before any write, a member resubmitting the
	// code must not spawn a notification
	for _, id := range requester.Details.TripIDs {
		if id == req.TripID {
			config.ErrorStatus("you are already a member of this trip", http.StatusConflict, w, errAlreadyMember)
			return
		}
	}

	owner, err := j.UDB.FindOne(ctx, bson.M{"_id": trip.Details.CreatedBy})
	if err != nil {
		config.ErrorStatus("failed to get trip owner", http.StatusNotFound, w, err)
		return
	}

	title, body := joinRequestMessage(requester.Details.Name, trip.Details.Title, trip.Details.Destination)
	notification := models.Notification{
		UserID:       owner.ID,
		Type:         models.NotificationTypeJoinRequest,
		Title:        title,
		Body:         body,
		RequesterUID: req.RequesterUID,
		TripID:       req.TripID,
		Status:       models.StatusPending,
		Unread:       true,
		CreatedAt:    primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := j.NDB.Upsert(ctx, models.JoinRequestID(req.TripID, req.RequesterUID), notification); err != nil {
		config.ErrorStatus("failed to store notification", http.StatusInternalServerError, w, err)
		return
	}

	pending := models.JoinRequest{
		UserID:    req.RequesterUID,
		TripID:    req.TripID,
		Status:    models.StatusPending,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := j.RQDB.Upsert(ctx, models.PendingRequestID(req.RequesterUID, req.TripID), pending); err != nil {
		config.ErrorStatus("failed to store pending request", http.StatusInternalServerError, w, err)
		return
	}

	// delivery is best-effort, the inbox doc above is the source of truth
	go func(token string) {
		if err := SendExpoPushNotification(token, title, body, map[string]interface{}{"screen": "notification"}); err != nil {
			zap.S().Errorf("failed to push join request to owner %s: %v", owner.ID, err)
		}
	}(owner.Details.PushToken)
	sendNotificationToUser(owner.ID, notification)

	b, err := json.Marshal(ownerContactResponse{
		Token:       owner.Details.PushToken,
		UID:         owner.ID,
		Name:        owner.Details.Name,
		Title:       trip.Details.Title,
		Destination: trip.Details.Destination,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ResolveJoinRequestHandler accepts or rejects a pending join request. Only
// the trip creator may resolve; the status write lands first so a crash
// mid-resolve leaves a resolved notification rather than a phantom pending
// one, and the pending-request record is removed last.
func (j JoinRequest) ResolveJoinRequestHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]
	notificationID := mux.Vars(r)["notification_id"]

	// the path user id must be the authenticated caller, a logged-in user
	// must not resolve someone else's inbox
	if callerID, ok := api.AuthUserID(r.Context()); !ok || callerID != userID {
		config.ErrorStatus("you can only resolve your own notifications", http.StatusForbidden, w, errNotCreator)
		return
	}

	var req resolveJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Decision != models.StatusAccepted && req.Decision != models.StatusRejected {
		config.ErrorStatus("decision must be accepted or rejected", http.StatusBadRequest, w, errInvalidInput)
		return
	}

	notification, err := j.NDB.FindOne(ctx, bson.M{"_id": notificationID, "userId": userID})
	if err != nil {
		config.ErrorStatus("notification not found", http.StatusNotFound, w, err)
		return
	}
	if notification.Type != models.NotificationTypeJoinRequest || notification.Status != models.StatusPending {
		config.ErrorStatus("join request already resolved", http.StatusConflict, w, errAlreadyResolved)
		return
	}

	trip, err := j.TDB.FindOne(ctx, bson.M{"_id": notification.TripID})
	if err != nil {
		config.ErrorStatus("trip not found", http.StatusNotFound, w, err)
		return
	}
	if trip.Details.CreatedBy != userID {
		config.ErrorStatus("only the trip creator can resolve join requests", http.StatusForbidden, w, errNotCreator)
		return
	}

	err = j.NDB.UpdateOne(ctx,
		bson.M{"_id": notificationID, "userId": userID},
		bson.M{"$set": bson.M{"status": req.Decision}})
	if err != nil {
		config.ErrorStatus("failed to update notification status", http.StatusInternalServerError, w, err)
		return
	}

	if req.Decision == models.StatusAccepted {
		_, err = j.UDB.UpdateOne(ctx,
			bson.M{"_id": notification.RequesterUID},
			bson.M{"$addToSet": bson.M{"user.tripIds": notification.TripID}})
		if err != nil {
			config.ErrorStatus("failed to add trip to user", http.StatusInternalServerError, w, err)
			return
		}
		err = j.TDB.UpdateOne(ctx,
			bson.M{"_id": notification.TripID},
			bson.M{"$addToSet": bson.M{"trip.travellers": notification.RequesterUID}})
		if err != nil {
			config.ErrorStatus("failed to add traveller to trip", http.StatusInternalServerError, w, err)
			return
		}

		j.notifyRequesterAccepted(ctx, userID, notification)
	}

	// removed last so an interrupted resolve can be retried by the client
	err = j.RQDB.DeleteOne(ctx,
		bson.M{"_id": models.PendingRequestID(notification.RequesterUID, notification.TripID)})
	if err != nil {
		config.ErrorStatus("failed to remove pending request", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(map[string]string{"status": req.Decision})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (j JoinRequest) notifyRequesterAccepted(ctx context.Context, ownerID string, notification *models.Notification) {
	owner, err := j.UDB.FindOne(ctx, bson.M{"_id": ownerID})
	if err != nil {
		zap.S().Errorf("failed to load owner %s for accept notification: %v", ownerID, err)
		return
	}
	requester, err := j.UDB.FindOne(ctx, bson.M{"_id": notification.RequesterUID})
	if err != nil {
		zap.S().Errorf("failed to load requester %s for accept notification: %v", notification.RequesterUID, err)
		return
	}

	title, body := requestAcceptedMessage(owner.Details.Name)
	accepted := models.Notification{
		UserID:    requester.ID,
		Type:      models.NotificationTypeReqAccepted,
		Title:     title,
		Body:      body,
		TripID:    notification.TripID,
		Status:    models.StatusAccepted,
		Unread:    true,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	id := models.JoinRequestID(notification.TripID, notification.RequesterUID) + "_accepted"
	if err := j.NDB.Upsert(ctx, id, accepted); err != nil {
		zap.S().Errorf("failed to store accept notification for %s: %v", requester.ID, err)
	}

	go func(token string) {
		if err := SendExpoPushNotification(token, title, body, map[string]interface{}{"screen": "notification"}); err != nil {
			zap.S().Errorf("failed to push accept notification to %s: %v", requester.ID, err)
		}
	}(requester.Details.PushToken)
	sendNotificationToUser(requester.ID, accepted)
}

// RemovePendingRequestHandler lets a requester withdraw a pending request
// record from their own list
func (j JoinRequest) RemovePendingRequestHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]
	tripID := mux.Vars(r)["trip_id"]

	err := j.RQDB.DeleteOne(ctx, bson.M{"_id": models.PendingRequestID(userID, tripID)})
	if err != nil {
		config.ErrorStatus("failed to delete pending request", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(map[string]string{"status": "deleted"})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// GetPendingRequestsHandler returns the trips a user has asked to join,
// newest first
func (j JoinRequest) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]

	requests, err := j.RQDB.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		config.ErrorStatus("failed to get pending requests", http.StatusInternalServerError, w, err)
		return
	}
	if requests == nil {
		requests = []models.JoinRequest{}
	}

	b, err := json.Marshal(requests)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
