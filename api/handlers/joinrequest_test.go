package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Nikhilsuthar09/vtrip-api/api"
	"github.com/Nikhilsuthar09/vtrip-api/api/handlers"
	"github.com/Nikhilsuthar09/vtrip-api/databases/mocks"
	"github.com/Nikhilsuthar09/vtrip-api/models"
)

func pendingTrip() *models.Trip {
	return &models.Trip{
		ID: "AB12C",
		Details: models.TripDetails{
			Title:       "Summer Escape",
			Destination: "Goa",
			StartDate:   "2026-01-01",
			EndDate:     "2026-01-03",
			CreatedBy:   "owner-1",
			Travellers:  []string{"owner-1"},
		},
	}
}

func TestJoinRequest_SubmitJoinRequestHandler(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}
	ndb := &mocks.NotificationDatabase{}
	rqdb := &mocks.JoinRequestDatabase{}

	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(pendingTrip(), nil)
	udb.On("FindOne", mock.Anything, bson.M{"_id": "requester-1"}).Return(&models.User{
		ID:      "requester-1",
		Details: models.UserDetails{Name: "Asha", TripIDs: []string{}},
	}, nil)
	udb.On("FindOne", mock.Anything, bson.M{"_id": "owner-1"}).Return(&models.User{
		ID:      "owner-1",
		Details: models.UserDetails{Name: "Nikhil", PushToken: ""},
	}, nil)
	ndb.On("Upsert", mock.Anything, "AB12C_requester-1", mock.AnythingOfType("models.Notification")).Return(nil)
	rqdb.On("Upsert", mock.Anything, "requester-1_AB12C", mock.AnythingOfType("models.JoinRequest")).Return(nil)

	j := handlers.JoinRequest{TDB: tdb, UDB: udb, NDB: ndb, RQDB: rqdb}

	req, _ := http.NewRequest("POST", "/api/v1/trip/join",
		strings.NewReader(`{"tripId":"AB12C","requesterUid":"requester-1"}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.SubmitJoinRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"uid":"owner-1"`)
	assert.Contains(t, rr.Body.String(), `"destination":"Goa"`)
	ndb.AssertExpectations(t)
	rqdb.AssertExpectations(t)
}

func TestJoinRequest_SubmitJoinRequestHandlerAlreadyMember(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}
	ndb := &mocks.NotificationDatabase{}
	rqdb := &mocks.JoinRequestDatabase{}

	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(pendingTrip(), nil)
	udb.On("FindOne", mock.Anything, bson.M{"_id": "requester-1"}).Return(&models.User{
		ID:      "requester-1",
		Details: models.UserDetails{Name: "Asha", TripIDs: []string{"AB12C"}},
	}, nil)

	j := handlers.JoinRequest{TDB: tdb, UDB: udb, NDB: ndb, RQDB: rqdb}

	req, _ := http.NewRequest("POST", "/api/v1/trip/join",
		strings.NewReader(`{"tripId":"AB12C","requesterUid":"requester-1"}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.SubmitJoinRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already a member")
	// a member resubmitting the code must not write anything
	ndb.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	rqdb.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinRequest_SubmitJoinRequestHandlerInvalidCode(t *testing.T) {
	j := handlers.JoinRequest{TDB: &mocks.TripDatabase{}, UDB: &mocks.UserDatabase{}, NDB: &mocks.NotificationDatabase{}, RQDB: &mocks.JoinRequestDatabase{}}

	req, _ := http.NewRequest("POST", "/api/v1/trip/join",
		strings.NewReader(`{"tripId":"ab12c","requesterUid":"requester-1"}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.SubmitJoinRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestJoinRequest_SubmitJoinRequestHandlerTripNotFound(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "ZZZZZ"}).Return(nil, mongo.ErrNoDocuments)

	j := handlers.JoinRequest{TDB: tdb, UDB: &mocks.UserDatabase{}, NDB: &mocks.NotificationDatabase{}, RQDB: &mocks.JoinRequestDatabase{}}

	req, _ := http.NewRequest("POST", "/api/v1/trip/join",
		strings.NewReader(`{"tripId":"ZZZZZ","requesterUid":"requester-1"}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.SubmitJoinRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var body models.ErrorMessageResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "trip not found, mongo: no documents in result", body.Response)
}

func pendingNotification() *models.Notification {
	return &models.Notification{
		ID:           "AB12C_requester-1",
		UserID:       "owner-1",
		Type:         models.NotificationTypeJoinRequest,
		RequesterUID: "requester-1",
		TripID:       "AB12C",
		Status:       models.StatusPending,
		Unread:       true,
	}
}

func TestJoinRequest_ResolveJoinRequestHandlerAccept(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}
	ndb := &mocks.NotificationDatabase{}
	rqdb := &mocks.JoinRequestDatabase{}

	ndb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C_requester-1", "userId": "owner-1"}).
		Return(pendingNotification(), nil)
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(pendingTrip(), nil)
	ndb.On("UpdateOne", mock.Anything,
		bson.M{"_id": "AB12C_requester-1", "userId": "owner-1"},
		bson.M{"$set": bson.M{"status": models.StatusAccepted}}).Return(nil)
	udb.On("UpdateOne", mock.Anything,
		bson.M{"_id": "requester-1"},
		bson.M{"$addToSet": bson.M{"user.tripIds": "AB12C"}}).Return(&mongo.UpdateResult{ModifiedCount: 1}, nil)
	tdb.On("UpdateOne", mock.Anything,
		bson.M{"_id": "AB12C"},
		bson.M{"$addToSet": bson.M{"trip.travellers": "requester-1"}}).Return(nil)
	udb.On("FindOne", mock.Anything, bson.M{"_id": "owner-1"}).Return(&models.User{
		ID:      "owner-1",
		Details: models.UserDetails{Name: "Nikhil"},
	}, nil)
	udb.On("FindOne", mock.Anything, bson.M{"_id": "requester-1"}).Return(&models.User{
		ID:      "requester-1",
		Details: models.UserDetails{Name: "Asha", PushToken: ""},
	}, nil)
	ndb.On("Upsert", mock.Anything, "AB12C_requester-1_accepted", mock.AnythingOfType("models.Notification")).Return(nil)
	rqdb.On("DeleteOne", mock.Anything, bson.M{"_id": "requester-1_AB12C"}).Return(nil)

	j := handlers.JoinRequest{TDB: tdb, UDB: udb, NDB: ndb, RQDB: rqdb}

	req, _ := http.NewRequest("PUT", "/api/v1/user/owner-1/notifications/AB12C_requester-1/resolve",
		strings.NewReader(`{"decision":"accepted"}`))
	req = mux.SetURLVars(req, map[string]string{"user_id": "owner-1", "notification_id": "AB12C_requester-1"})
	req = req.WithContext(api.WithAuthUserID(req.Context(), "owner-1"))
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.ResolveJoinRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"accepted"`)
	tdb.AssertExpectations(t)
	udb.AssertExpectations(t)
	rqdb.AssertExpectations(t)
}

func TestJoinRequest_ResolveJoinRequestHandlerReject(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}
	ndb := &mocks.NotificationDatabase{}
	rqdb := &mocks.JoinRequestDatabase{}

	ndb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C_requester-1", "userId": "owner-1"}).
		Return(pendingNotification(), nil)
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(pendingTrip(), nil)
	ndb.On("UpdateOne", mock.Anything,
		bson.M{"_id": "AB12C_requester-1", "userId": "owner-1"},
		bson.M{"$set": bson.M{"status": models.StatusRejected}}).Return(nil)
	rqdb.On("DeleteOne", mock.Anything, bson.M{"_id": "requester-1_AB12C"}).Return(nil)

	j := handlers.JoinRequest{TDB: tdb, UDB: udb, NDB: ndb, RQDB: rqdb}

	req, _ := http.NewRequest("PUT", "/api/v1/user/owner-1/notifications/AB12C_requester-1/resolve",
		strings.NewReader(`{"decision":"rejected"}`))
	req = mux.SetURLVars(req, map[string]string{"user_id": "owner-1", "notification_id": "AB12C_requester-1"})
	req = req.WithContext(api.WithAuthUserID(req.Context(), "owner-1"))
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.ResolveJoinRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// a rejection must never grant membership
	udb.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	tdb.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	rqdb.AssertExpectations(t)
}

func TestJoinRequest_ResolveJoinRequestHandlerNotCreator(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	ndb := &mocks.NotificationDatabase{}

	notification := pendingNotification()
	notification.UserID = "impostor-1"
	ndb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C_requester-1", "userId": "impostor-1"}).
		Return(notification, nil)
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(pendingTrip(), nil)

	j := handlers.JoinRequest{TDB: tdb, UDB: &mocks.UserDatabase{}, NDB: ndb, RQDB: &mocks.JoinRequestDatabase{}}

	req, _ := http.NewRequest("PUT", "/api/v1/user/impostor-1/notifications/AB12C_requester-1/resolve",
		strings.NewReader(`{"decision":"accepted"}`))
	req = mux.SetURLVars(req, map[string]string{"user_id": "impostor-1", "notification_id": "AB12C_requester-1"})
	req = req.WithContext(api.WithAuthUserID(req.Context(), "impostor-1"))
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.ResolveJoinRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	ndb.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinRequest_ResolveJoinRequestHandlerWrongCaller(t *testing.T) {
	ndb := &mocks.NotificationDatabase{}

	j := handlers.JoinRequest{TDB: &mocks.TripDatabase{}, UDB: &mocks.UserDatabase{}, NDB: ndb, RQDB: &mocks.JoinRequestDatabase{}}

	// authenticated as someone else, the owner's id in the path must not help
	req, _ := http.NewRequest("PUT", "/api/v1/user/owner-1/notifications/AB12C_requester-1/resolve",
		strings.NewReader(`{"decision":"accepted"}`))
	req = mux.SetURLVars(req, map[string]string{"user_id": "owner-1", "notification_id": "AB12C_requester-1"})
	req = req.WithContext(api.WithAuthUserID(req.Context(), "impostor-1"))
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.ResolveJoinRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	ndb.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
	ndb.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinRequest_ResolveJoinRequestHandlerAlreadyResolved(t *testing.T) {
	ndb := &mocks.NotificationDatabase{}

	notification := pendingNotification()
	notification.Status = models.StatusAccepted
	ndb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C_requester-1", "userId": "owner-1"}).
		Return(notification, nil)

	j := handlers.JoinRequest{TDB: &mocks.TripDatabase{}, UDB: &mocks.UserDatabase{}, NDB: ndb, RQDB: &mocks.JoinRequestDatabase{}}

	req, _ := http.NewRequest("PUT", "/api/v1/user/owner-1/notifications/AB12C_requester-1/resolve",
		strings.NewReader(`{"decision":"accepted"}`))
	req = mux.SetURLVars(req, map[string]string{"user_id": "owner-1", "notification_id": "AB12C_requester-1"})
	req = req.WithContext(api.WithAuthUserID(req.Context(), "owner-1"))
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.ResolveJoinRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestJoinRequest_RemovePendingRequestHandler(t *testing.T) {
	rqdb := &mocks.JoinRequestDatabase{}
	rqdb.On("DeleteOne", mock.Anything, bson.M{"_id": "requester-1_AB12C"}).Return(nil)

	j := handlers.JoinRequest{RQDB: rqdb}

	req, _ := http.NewRequest("DELETE", "/api/v1/user/requester-1/requested/AB12C", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "requester-1", "trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.RemovePendingRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	rqdb.AssertExpectations(t)
}

func TestJoinRequest_GetPendingRequestsHandler(t *testing.T) {
	rqdb := &mocks.JoinRequestDatabase{}
	rqdb.On("Find", mock.Anything, bson.M{"userId": "requester-1"}).Return([]models.JoinRequest{
		{ID: "requester-1_AB12C", UserID: "requester-1", TripID: "AB12C", Status: models.StatusPending},
	}, nil)

	j := handlers.JoinRequest{RQDB: rqdb}

	req, _ := http.NewRequest("GET", "/api/v1/user/requester-1/requested", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "requester-1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.GetPendingRequestsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "AB12C")
}

func TestJoinRequest_GetPendingRequestsHandlerError(t *testing.T) {
	rqdb := &mocks.JoinRequestDatabase{}
	rqdb.On("Find", mock.Anything, bson.M{"userId": "requester-1"}).Return(nil, errors.New("mocked-error"))

	j := handlers.JoinRequest{RQDB: rqdb}

	req, _ := http.NewRequest("GET", "/api/v1/user/requester-1/requested", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "requester-1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(j.GetPendingRequestsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
