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

	"github.com/Nikhilsuthar09/vtrip-api/api"
	"github.com/Nikhilsuthar09/vtrip-api/config"
	"github.com/Nikhilsuthar09/vtrip-api/databases"
	"github.com/Nikhilsuthar09/vtrip-api/models"
)

const journeyDateLayout = "2006-01-02"

type addActivityRequest struct {
	Title       string `json:"title"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// JourneyDaysHandler returns the derived day list for a trip's date range.
// Days are computed, not stored; only days with activities appear in the
// trip's dayIds array.
func (t Trip) JourneyDaysHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	trip, err := t.DB.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		config.ErrorStatus("failed to get trip by ID", http.StatusNotFound, w, err)
		return
	}

	days, err := generateJourneyDays(trip.Details)
	if err != nil {
		config.ErrorStatus("failed to compute journey days", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(days)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// GetActivitiesHandler returns a day's activities ordered by time
func (t Trip) GetActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]
	dayID := mux.Vars(r)["day_id"]

	activities := []models.Activity{}
	err := t.RDB.Find(ctx, databases.ItineraryCollection,
		bson.M{"tripId": tripID, "dayId": dayID},
		&activities,
		options.Find().SetSort(bson.M{"time": 1}))
	if err != nil {
		config.ErrorStatus("failed to get activities", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(activities)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddActivityHandler adds an activity to a day and records the day in the
// trip's dayIds so teardown knows which days hold documents
func (t Trip) AddActivityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]
	dayID := mux.Vars(r)["day_id"]

	var req addActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Title == "" {
		config.ErrorStatus("activity title is required", http.StatusBadRequest, w, errInvalidInput)
		return
	}

	trip, err := t.DB.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		config.ErrorStatus("failed to get trip by ID", http.StatusNotFound, w, err)
		return
	}
	if !validJourneyDay(trip.Details, dayID) {
		config.ErrorStatus("day is outside the trip's date range", http.StatusBadRequest, w, errInvalidInput)
		return
	}

	activity := models.Activity{
		ID:          uuid.New().String(),
		TripID:      tripID,
		DayID:       dayID,
		Title:       req.Title,
		Time:        req.Time,
		Description: req.Description,
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := t.RDB.InsertOne(ctx, databases.ItineraryCollection, activity); err != nil {
		config.ErrorStatus("failed to insert activity", http.StatusInternalServerError, w, err)
		return
	}

	err = t.DB.UpdateOne(ctx,
		bson.M{"_id": tripID},
		bson.M{"$addToSet": bson.M{"trip.dayIds": dayID}})
	if err != nil {
		config.ErrorStatus("failed to record day on trip", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(activity)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// DeleteActivityHandler removes an activity; when a day empties out it is
// pulled from the trip's dayIds
func (t Trip) DeleteActivityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]
	dayID := mux.Vars(r)["day_id"]
	activityID := mux.Vars(r)["activity_id"]

	err := t.RDB.DeleteOne(ctx, databases.ItineraryCollection,
		bson.M{"_id": activityID, "tripId": tripID, "dayId": dayID})
	if err != nil {
		config.ErrorStatus("failed to delete activity", http.StatusInternalServerError, w, err)
		return
	}

	remaining, err := t.RDB.CountDocuments(ctx, databases.ItineraryCollection,
		bson.M{"tripId": tripID, "dayId": dayID})
	if err != nil {
		config.ErrorStatus("failed to count activities", http.StatusInternalServerError, w, err)
		return
	}
	if remaining == 0 {
		err = t.DB.UpdateOne(ctx,
			bson.M{"_id": tripID},
			bson.M{"$pull": bson.M{"trip.dayIds": dayID}})
		if err != nil {
			config.ErrorStatus("failed to remove day from trip", http.StatusInternalServerError, w, err)
			return
		}
	}

	b, err := json.Marshal(map[string]string{"status": "deleted"})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// generateJourneyDays expands a trip's date range into day entries. A single
// day trip gets one special title, the last day a farewell title, and the
// rest ordinal titles.
func generateJourneyDays(details models.TripDetails) ([]models.JourneyDay, error) {
	start, err := time.Parse(journeyDateLayout, details.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", details.StartDate, err)
	}
	end, err := time.Parse(journeyDateLayout, details.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", details.EndDate, err)
	}

	totalDays := int(end.Sub(start).Hours()/24) + 1
	if totalDays < 1 {
		return nil, fmt.Errorf("end date %q is before start date %q", details.EndDate, details.StartDate)
	}

	days := make([]models.JourneyDay, 0, totalDays)
	for i := 0; i < totalDays; i++ {
		current := start.AddDate(0, 0, i)

		var title string
		switch {
		case totalDays == 1:
			title = fmt.Sprintf("One Day Trip to %s", details.Destination)
		case i == totalDays-1:
			title = fmt.Sprintf("Good Bye %s", details.Destination)
		default:
			title = fmt.Sprintf("%s %s day", details.Destination, ordinal(i+1))
		}

		days = append(days, models.JourneyDay{
			ID:        fmt.Sprintf("day-%d", i+1),
			Title:     title,
			Date:      fmt.Sprintf("%d %s", current.Day(), current.Format("Jan")),
			DayNumber: i + 1,
			RawDate:   current.Format(journeyDateLayout),
		})
	}
	return days, nil
}

func validJourneyDay(details models.TripDetails, dayID string) bool {
	days, err := generateJourneyDays(details)
	if err != nil {
		return false
	}
	for _, d := range days {
		if d.ID == dayID {
			return true
		}
	}
	return false
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
