package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/Nikhilsuthar09/vtrip-api/api/handlers"
	"github.com/Nikhilsuthar09/vtrip-api/databases"
	"github.com/Nikhilsuthar09/vtrip-api/databases/mocks"
	"github.com/Nikhilsuthar09/vtrip-api/models"
)

func teardownTrip() *models.Trip {
	return &models.Trip{
		ID: "AB12C",
		Details: models.TripDetails{
			Title:       "Summer Escape",
			Destination: "Goa",
			StartDate:   "2026-01-01",
			EndDate:     "2026-01-03",
			CreatedBy:   "owner-1",
			Travellers:  []string{"owner-1", "traveller-2"},
			DayIDs:      []string{"day-1"},
		},
	}
}

func expectEmptySubCollections(rdb *mocks.TripResourceDatabase, tripID string, dayIDs []string) {
	for _, dayID := range dayIDs {
		rdb.On("FindIDs", mock.Anything, databases.ItineraryCollection,
			bson.M{"tripId": tripID, "dayId": dayID}).Return([]string{}, nil)
	}
	for _, collection := range []string{databases.PackingCollection, databases.PlannedExpensesCollection, databases.OnTripExpensesCollection} {
		rdb.On("FindIDs", mock.Anything, collection, bson.M{"tripId": tripID}).Return([]string{}, nil)
	}
}

func TestTrip_DeleteTripHandler(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}
	rdb := &mocks.TripResourceDatabase{}

	trip := teardownTrip()
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(trip, nil)
	rdb.On("FindIDs", mock.Anything, databases.ItineraryCollection,
		bson.M{"tripId": "AB12C", "dayId": "day-1"}).Return([]string{"activity-1"}, nil)
	for _, collection := range []string{databases.PackingCollection, databases.PlannedExpensesCollection, databases.OnTripExpensesCollection} {
		rdb.On("FindIDs", mock.Anything, collection, bson.M{"tripId": "AB12C"}).Return([]string{}, nil)
	}
	rdb.On("BulkDelete", mock.Anything, databases.ItineraryCollection, []string{"activity-1"}).Return(int64(1), nil)
	tdb.On("RemoveWithTravellers", mock.Anything, "AB12C", []string{"owner-1", "traveller-2"}).Return(nil)

	h := handlers.Trip{DB: tdb, UDB: udb, RDB: rdb}

	req, _ := http.NewRequest("DELETE", "/api/v1/trip/AB12C", nil)
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Trip deleted successfully"}`, rr.Body.String())
	tdb.AssertExpectations(t)
	rdb.AssertExpectations(t)
	// the transaction covered the removal, no batch fallback
	udb.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrip_DeleteTripHandlerBodyOverridesTravellers(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}
	rdb := &mocks.TripResourceDatabase{}

	trip := teardownTrip()
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(trip, nil)
	expectEmptySubCollections(rdb, "AB12C", trip.Details.DayIDs)
	tdb.On("RemoveWithTravellers", mock.Anything, "AB12C", []string{"owner-1"}).Return(nil)

	h := handlers.Trip{DB: tdb, UDB: udb, RDB: rdb}

	req, _ := http.NewRequest("DELETE", "/api/v1/trip/AB12C",
		strings.NewReader(`{"travellers":["owner-1"]}`))
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Trip deleted successfully"}`, rr.Body.String())
	tdb.AssertExpectations(t)
}

func TestTrip_DeleteTripHandlerNotFound(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(nil, mongodriver.ErrNoDocuments)

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: &mocks.TripResourceDatabase{}}

	req, _ := http.NewRequest("DELETE", "/api/v1/trip/AB12C", nil)
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Trip not found"}`, rr.Body.String())
}

func TestTrip_DeleteTripHandlerFallsBackToBatch(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}
	rdb := &mocks.TripResourceDatabase{}

	trip := teardownTrip()
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(trip, nil)
	expectEmptySubCollections(rdb, "AB12C", trip.Details.DayIDs)
	tdb.On("RemoveWithTravellers", mock.Anything, "AB12C", []string{"owner-1", "traveller-2"}).
		Return(errors.New("transaction aborted"))
	udb.On("UpdateMany", mock.Anything,
		bson.M{"_id": bson.M{"$in": []string{"owner-1", "traveller-2"}}},
		bson.M{"$pull": bson.M{"user.tripIds": "AB12C"}}).Return(&mongodriver.UpdateResult{ModifiedCount: 2}, nil)
	tdb.On("DeleteOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(nil)

	h := handlers.Trip{DB: tdb, UDB: udb, RDB: rdb}

	req, _ := http.NewRequest("DELETE", "/api/v1/trip/AB12C", nil)
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteTripHandler).ServeHTTP(rr, req)

	// the batch fallback must land the same writes and still report success
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Trip deleted successfully"}`, rr.Body.String())
	tdb.AssertExpectations(t)
	udb.AssertExpectations(t)
}

func TestTrip_DeleteTripHandlerSubCollectionFailure(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	rdb := &mocks.TripResourceDatabase{}

	trip := teardownTrip()
	trip.Details.DayIDs = nil
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(trip, nil)
	rdb.On("FindIDs", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: rdb}

	req, _ := http.NewRequest("DELETE", "/api/v1/trip/AB12C", nil)
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Something went wrong!"}`, rr.Body.String())
	// trip doc must survive when sub-resource deletion failed
	tdb.AssertNotCalled(t, "RemoveWithTravellers", mock.Anything, mock.Anything, mock.Anything)
	tdb.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestTrip_LeaveTripHandler(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}

	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(teardownTrip(), nil)
	udb.On("UpdateOne", mock.Anything,
		bson.M{"_id": "traveller-2"},
		bson.M{"$pull": bson.M{"user.tripIds": "AB12C"}}).Return(&mongodriver.UpdateResult{ModifiedCount: 1}, nil)
	tdb.On("UpdateOne", mock.Anything,
		bson.M{"_id": "AB12C"},
		bson.M{"$pull": bson.M{"trip.travellers": "traveller-2"}}).Return(nil)

	h := handlers.Trip{DB: tdb, UDB: udb, RDB: &mocks.TripResourceDatabase{}}

	req, _ := http.NewRequest("POST", "/api/v1/trip/AB12C/leave", strings.NewReader(`{"userId":"traveller-2"}`))
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.LeaveTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	tdb.AssertExpectations(t)
	udb.AssertExpectations(t)
	tdb.AssertNotCalled(t, "RemoveWithTravellers", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrip_LeaveTripHandlerLastTraveller(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	rdb := &mocks.TripResourceDatabase{}

	trip := teardownTrip()
	trip.Details.Travellers = []string{"owner-1"}
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(trip, nil)
	expectEmptySubCollections(rdb, "AB12C", trip.Details.DayIDs)
	tdb.On("RemoveWithTravellers", mock.Anything, "AB12C", []string{"owner-1"}).Return(nil)

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: rdb}

	req, _ := http.NewRequest("POST", "/api/v1/trip/AB12C/leave", strings.NewReader(`{"userId":"owner-1"}`))
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.LeaveTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	tdb.AssertExpectations(t)
}

func TestTrip_LeaveTripHandlerNotTraveller(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(teardownTrip(), nil)

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: &mocks.TripResourceDatabase{}}

	req, _ := http.NewRequest("POST", "/api/v1/trip/AB12C/leave", strings.NewReader(`{"userId":"stranger-9"}`))
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.LeaveTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestTrip_CreateTripHandler(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}

	tdb.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Trip")).Return(nil)
	udb.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongodriver.UpdateResult{ModifiedCount: 1}, nil)

	h := handlers.Trip{DB: tdb, UDB: udb, RDB: &mocks.TripResourceDatabase{}}

	body := `{"title":"Summer Escape","destination":"Goa","budget":5000,"startDate":"2026-01-01","endDate":"2026-01-03","createdBy":"owner-1"}`
	req, _ := http.NewRequest("POST", "/api/v1/trip", strings.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"travellers":["owner-1"]`)
	tdb.AssertExpectations(t)
	udb.AssertExpectations(t)
}

func TestTrip_CreateTripHandlerMissingFields(t *testing.T) {
	h := handlers.Trip{DB: &mocks.TripDatabase{}, UDB: &mocks.UserDatabase{}, RDB: &mocks.TripResourceDatabase{}}

	req, _ := http.NewRequest("POST", "/api/v1/trip", strings.NewReader(`{"title":"  "}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTrip_TripTravellersHandler(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	udb := &mocks.UserDatabase{}

	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(teardownTrip(), nil)
	udb.On("Find", mock.Anything, bson.M{"_id": bson.M{"$in": []string{"owner-1", "traveller-2"}}}).
		Return([]models.User{
			{ID: "owner-1", Details: models.UserDetails{Name: "Nikhil"}},
			{ID: "traveller-2", Details: models.UserDetails{}},
		}, nil)

	h := handlers.Trip{DB: tdb, UDB: udb, RDB: &mocks.TripResourceDatabase{}}

	req, _ := http.NewRequest("GET", "/api/v1/trip/AB12C/travellers", nil)
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.TripTravellersHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Nikhil"`)
	assert.Contains(t, rr.Body.String(), `"name":"Unknown User"`)
}

func TestTrip_TripsByUserIDHandlerEmpty(t *testing.T) {
	udb := &mocks.UserDatabase{}
	udb.On("FindOne", mock.Anything, bson.M{"_id": "owner-1"}).Return(&models.User{
		ID:      "owner-1",
		Details: models.UserDetails{TripIDs: []string{}},
	}, nil)

	h := handlers.Trip{DB: &mocks.TripDatabase{}, UDB: udb, RDB: &mocks.TripResourceDatabase{}}

	req, _ := http.NewRequest("GET", "/api/v1/user/owner-1/trips", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "owner-1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.TripsByUserIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}
