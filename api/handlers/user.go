package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nikhilsuthar09/vtrip-api/api"
	"github.com/Nikhilsuthar09/vtrip-api/config"
	"github.com/Nikhilsuthar09/vtrip-api/databases"
	"github.com/Nikhilsuthar09/vtrip-api/models"
)

// User struct mostly used for mocking tests
type User struct {
	DB   databases.UserDatabase
	TDB  databases.TripDatabase
	NDB  databases.NotificationDatabase
	RQDB databases.JoinRequestDatabase
	RDB  databases.TripResourceDatabase
}

type createUserRequest struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	ImgURL   string `json:"imgUrl"`
}

type pushTokenRequest struct {
	PushToken string `json:"pushToken"`
}

// UserCreateHandler creates a new user account
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	var req createUserRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		config.ErrorStatus("email and password are required", http.StatusBadRequest, w, errInvalidInput)
		return
	}

	// check if the user already exists
	existingUser, _ := u.DB.FindOne(ctx, bson.M{"user.email": req.Email})
	if existingUser != nil {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	// hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	user := models.User{
		ID: req.UID,
		Details: models.UserDetails{
			Name:      req.Name,
			Email:     req.Email,
			Password:  string(hashedPassword),
			ImgURL:    req.ImgURL,
			TripIDs:   []string{},
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
			UpdatedAt: primitive.NewDateTimeFromTime(time.Now()),
		},
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if err := u.DB.InsertOne(ctx, user); err != nil {
		config.ErrorStatus("failed to insert user", http.StatusInternalServerError, w, err)
		return
	}

	user.Details.Password = ""
	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UserHandler returns a user given a userID
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]

	dbResp, err := u.DB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	dbResp.Details.Password = ""
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdatePushTokenHandler stores the Expo push token for a user's device
func (u User) UpdatePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]

	var req pushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	result, err := u.DB.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"user.pushToken": req.PushToken,
			"user.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}})
	if err != nil {
		config.ErrorStatus("failed to update push token", http.StatusInternalServerError, w, err)
		return
	}
	if result.MatchedCount == 0 {
		config.ErrorStatus("user not found", http.StatusNotFound, w, errInvalidInput)
		return
	}

	b, err := json.Marshal(map[string]string{"status": "updated"})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// GetUserNotificationsHandler returns the user's inbox, newest first
func (u User) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]

	notifications, err := u.NDB.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("failed to get notifications", http.StatusInternalServerError, w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	b, err := json.Marshal(notifications)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MarkNotificationAsReadHandler flips a notification from unread to read.
// Reading never changes the join-request status.
func (u User) MarkNotificationAsReadHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]
	notificationID := mux.Vars(r)["notification_id"]

	err := u.NDB.UpdateOne(ctx,
		bson.M{"_id": notificationID, "userId": userID, "unread": true},
		bson.M{"$set": bson.M{"unread": false}})
	if err != nil {
		config.ErrorStatus("failed to mark notification as read", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(map[string]string{"status": "read"})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteNotificationHandler removes a single notification from the inbox
func (u User) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]
	notificationID := mux.Vars(r)["notification_id"]

	err := u.NDB.DeleteOne(ctx, bson.M{"_id": notificationID, "userId": userID})
	if err != nil {
		config.ErrorStatus("failed to delete notification", http.StatusInternalServerError, w, err)
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

// DeleteUserHandler removes an account and everything attached to it: the
// inbox, pending join requests, and each trip membership. Trips where the
// user was the last traveller are torn down entirely.
func (u User) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]

	user, err := u.DB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	if _, err := u.NDB.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		config.ErrorStatus("failed to delete notifications", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := u.RQDB.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		config.ErrorStatus("failed to delete pending requests", http.StatusInternalServerError, w, err)
		return
	}

	t := Trip{DB: u.TDB, UDB: u.DB, RDB: u.RDB}
	for _, tripID := range user.Details.TripIDs {
		trip, err := u.TDB.FindOne(ctx, bson.M{"_id": tripID})
		if err != nil {
			// trip already gone, membership is moot
			zap.S().Debugf("skipping missing trip %s while deleting user %s", tripID, userID)
			continue
		}
		if len(trip.Details.Travellers) <= 1 {
			if err := t.teardownTrip(ctx, trip, trip.Details.Travellers); err != nil {
				config.ErrorStatus("failed to tear down trip "+tripID, http.StatusInternalServerError, w, err)
				return
			}
		} else {
			err = u.TDB.UpdateOne(ctx,
				bson.M{"_id": tripID},
				bson.M{"$pull": bson.M{"trip.travellers": userID}})
			if err != nil {
				config.ErrorStatus("failed to remove traveller from trip "+tripID, http.StatusInternalServerError, w, err)
				return
			}
		}
	}

	if err := u.DB.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		config.ErrorStatus("failed to delete user", http.StatusInternalServerError, w, err)
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
