package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Nikhilsuthar09/vtrip-api/api/handlers"
	"github.com/Nikhilsuthar09/vtrip-api/databases"
	"github.com/Nikhilsuthar09/vtrip-api/databases/mocks"
	"github.com/Nikhilsuthar09/vtrip-api/models"
)

func TestTrip_JourneyDaysHandler(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(teardownTrip(), nil)

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: &mocks.TripResourceDatabase{}}

	req, _ := http.NewRequest("GET", "/api/v1/trip/AB12C/days", nil)
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.JourneyDaysHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var days []models.JourneyDay
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &days))
	assert.Len(t, days, 3)
	assert.Equal(t, "day-1", days[0].ID)
	assert.Equal(t, "Goa 1st day", days[0].Title)
	assert.Equal(t, "Goa 2nd day", days[1].Title)
	assert.Equal(t, "Good Bye Goa", days[2].Title)
	assert.Equal(t, "1 Jan", days[0].Date)
	assert.Equal(t, "2026-01-03", days[2].RawDate)
}

func TestTrip_JourneyDaysHandlerSingleDay(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	trip := teardownTrip()
	trip.Details.EndDate = trip.Details.StartDate
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(trip, nil)

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: &mocks.TripResourceDatabase{}}

	req, _ := http.NewRequest("GET", "/api/v1/trip/AB12C/days", nil)
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.JourneyDaysHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var days []models.JourneyDay
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &days))
	assert.Len(t, days, 1)
	assert.Equal(t, "One Day Trip to Goa", days[0].Title)
}

func TestTrip_AddActivityHandler(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	rdb := &mocks.TripResourceDatabase{}

	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(teardownTrip(), nil)
	rdb.On("InsertOne", mock.Anything, databases.ItineraryCollection, mock.AnythingOfType("models.Activity")).Return(nil)
	tdb.On("UpdateOne", mock.Anything,
		bson.M{"_id": "AB12C"},
		bson.M{"$addToSet": bson.M{"trip.dayIds": "day-2"}}).Return(nil)

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: rdb}

	req, _ := http.NewRequest("POST", "/api/v1/trip/AB12C/days/day-2/activities",
		strings.NewReader(`{"title":"Beach walk","time":"07:30"}`))
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C", "day_id": "day-2"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AddActivityHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"dayId":"day-2"`)
	tdb.AssertExpectations(t)
	rdb.AssertExpectations(t)
}

func TestTrip_AddActivityHandlerDayOutOfRange(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	rdb := &mocks.TripResourceDatabase{}
	tdb.On("FindOne", mock.Anything, bson.M{"_id": "AB12C"}).Return(teardownTrip(), nil)

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: rdb}

	req, _ := http.NewRequest("POST", "/api/v1/trip/AB12C/days/day-9/activities",
		strings.NewReader(`{"title":"Beach walk"}`))
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C", "day_id": "day-9"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AddActivityHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rdb.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrip_DeleteActivityHandlerPullsEmptyDay(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	rdb := &mocks.TripResourceDatabase{}

	rdb.On("DeleteOne", mock.Anything, databases.ItineraryCollection,
		bson.M{"_id": "activity-1", "tripId": "AB12C", "dayId": "day-1"}).Return(nil)
	rdb.On("CountDocuments", mock.Anything, databases.ItineraryCollection,
		bson.M{"tripId": "AB12C", "dayId": "day-1"}).Return(int64(0), nil)
	tdb.On("UpdateOne", mock.Anything,
		bson.M{"_id": "AB12C"},
		bson.M{"$pull": bson.M{"trip.dayIds": "day-1"}}).Return(nil)

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: rdb}

	req, _ := http.NewRequest("DELETE", "/api/v1/trip/AB12C/days/day-1/activities/activity-1", nil)
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C", "day_id": "day-1", "activity_id": "activity-1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteActivityHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	tdb.AssertExpectations(t)
	rdb.AssertExpectations(t)
}

func TestTrip_DeleteActivityHandlerKeepsBusyDay(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	rdb := &mocks.TripResourceDatabase{}

	rdb.On("DeleteOne", mock.Anything, databases.ItineraryCollection,
		bson.M{"_id": "activity-1", "tripId": "AB12C", "dayId": "day-1"}).Return(nil)
	rdb.On("CountDocuments", mock.Anything, databases.ItineraryCollection,
		bson.M{"tripId": "AB12C", "dayId": "day-1"}).Return(int64(2), nil)

	h := handlers.Trip{DB: tdb, UDB: &mocks.UserDatabase{}, RDB: rdb}

	req, _ := http.NewRequest("DELETE", "/api/v1/trip/AB12C/days/day-1/activities/activity-1", nil)
	req = mux.SetURLVars(req, map[string]string{"trip_id": "AB12C", "day_id": "day-1", "activity_id": "activity-1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteActivityHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	tdb.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}
