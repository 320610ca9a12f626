package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Nikhilsuthar09/vtrip-api/api"
	"github.com/Nikhilsuthar09/vtrip-api/config"
	"github.com/Nikhilsuthar09/vtrip-api/databases"
	"github.com/Nikhilsuthar09/vtrip-api/models"
)

const (
	// teardown deletes nested documents in bulk writes of at most this many ops
	teardownBatchSize = 500

	// number of attempts to find an unused trip code before giving up
	roomCodeAttempts = 5

	// mongo $in queries for traveller profiles are chunked to keep parity
	// with the mobile client's paging
	travellerChunkSize = 10
)

// Trip struct mostly used for mocking tests
type Trip struct {
	DB  databases.TripDatabase
	UDB databases.UserDatabase
	RDB databases.TripResourceDatabase
}

type createTripRequest struct {
	Title       string `json:"title"`
	Destination string `json:"destination"`
	Budget      int    `json:"budget"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	ImageURL    string `json:"imageUrl"`
	CreatedBy   string `json:"createdBy"`
}

type deleteTripRequest struct {
	Travellers []string `json:"travellers"`
}

type leaveTripRequest struct {
	UserID string `json:"userId"`
}

// CreateTripHandler creates a new trip with a fresh shareable code and adds
// the creator as its first traveller
func (t Trip) CreateTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Title == "" || req.Destination == "" || req.StartDate == "" || req.EndDate == "" || req.CreatedBy == "" {
		config.ErrorStatus("title, destination, dates and creator are required", http.StatusBadRequest, w, errInvalidInput)
		return
	}

	trip := models.Trip{
		Details: models.TripDetails{
			Title:       req.Title,
			Destination: req.Destination,
			Budget:      req.Budget,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			ImageURL:    req.ImageURL,
			CreatedBy:   req.CreatedBy,
			Travellers:  []string{req.CreatedBy},
			DayIDs:      []string{},
			CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
			UpdatedAt:   primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	// codes are only 5 chars, so retry on the rare collision
	var err error
	for i := 0; i < roomCodeAttempts; i++ {
		trip.ID, err = GenerateRoomCode()
		if err != nil {
			config.ErrorStatus("failed to generate trip code", http.StatusInternalServerError, w, err)
			return
		}
		err = t.DB.InsertOne(ctx, trip)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		config.ErrorStatus("failed to create trip", http.StatusInternalServerError, w, err)
		return
	}

	_, err = t.UDB.UpdateOne(ctx,
		bson.M{"_id": req.CreatedBy},
		bson.M{"$addToSet": bson.M{"user.tripIds": trip.ID}})
	if err != nil {
		config.ErrorStatus("failed to add trip to user", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(trip)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// TripHandler returns a trip given its code
func (t Trip) TripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	dbResp, err := t.DB.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		config.ErrorStatus("failed to get trip by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// tripFieldsMutable lists the trip fields a PATCH may touch
var tripFieldsMutable = map[string]bool{
	"title":       true,
	"destination": true,
	"budget":      true,
	"startDate":   true,
	"endDate":     true,
	"imageUrl":    true,
}

// UpdateTripFieldHandler applies a partial update to a trip's editable fields
func (t Trip) UpdateTripFieldHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{}
	for k, v := range fields {
		if !tripFieldsMutable[k] {
			config.ErrorStatus("field is not editable: "+k, http.StatusBadRequest, w, errInvalidInput)
			return
		}
		set["trip."+k] = v
	}
	if len(set) == 0 {
		config.ErrorStatus("no fields to update", http.StatusBadRequest, w, errInvalidInput)
		return
	}
	set["trip.updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	err := t.DB.UpdateOne(ctx, bson.M{"_id": tripID}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update trip", http.StatusInternalServerError, w, err)
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

// TripsByUserIDHandler returns all trips a user belongs to, ordered by start date
func (t Trip) TripsByUserIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := mux.Vars(r)["user_id"]

	user, err := t.UDB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	trips := []models.Trip{}
	if len(user.Details.TripIDs) > 0 {
		trips, err = t.DB.Find(ctx,
			bson.M{"_id": bson.M{"$in": user.Details.TripIDs}},
			options.Find().SetSort(bson.M{"trip.startDate": 1}))
		if err != nil {
			config.ErrorStatus("failed to get trips", http.StatusInternalServerError, w, err)
			return
		}
	}
	if trips == nil {
		trips = []models.Trip{}
	}

	b, err := json.Marshal(trips)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// TripTravellersHandler resolves traveller ids to display profiles, queried
// in chunks of 10
func (t Trip) TripTravellersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	trip, err := t.DB.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		config.ErrorStatus("failed to get trip by ID", http.StatusNotFound, w, err)
		return
	}

	travellers := []models.TravellerInfo{}
	ids := trip.Details.Travellers
	for i := 0; i < len(ids); i += travellerChunkSize {
		end := i + travellerChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		users, err := t.UDB.Find(ctx, bson.M{"_id": bson.M{"$in": ids[i:end]}})
		if err != nil {
			config.ErrorStatus("failed to get travellers", http.StatusInternalServerError, w, err)
			return
		}
		for _, u := range users {
			name := u.Details.Name
			if name == "" {
				name = "Unknown User"
			}
			travellers = append(travellers, models.TravellerInfo{
				UID:      u.ID,
				Name:     name,
				Email:    u.Details.Email,
				ImageURL: u.Details.ImgURL,
			})
		}
	}

	b, err := json.Marshal(travellers)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteTripHandler tears down a trip: every packing, expense and itinerary
// doc goes first, then the trip and each traveller's membership are removed
// together. The response always carries a success flag instead of surfacing
// raw errors to the mobile client.
func (t Trip) DeleteTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	var req deleteTripRequest
	// the body is optional, callers may rely on the stored traveller list
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	trip, err := t.DB.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		writeDeleteResult(w, http.StatusNotFound, models.DeleteTripResult{Success: false, Message: "Trip not found"})
		return
	}

	travellers := req.Travellers
	if len(travellers) == 0 {
		travellers = trip.Details.Travellers
	}

	if err := t.teardownTrip(ctx, trip, travellers); err != nil {
		zap.S().Errorf("failed to tear down trip %s: %v", tripID, err)
		writeDeleteResult(w, http.StatusInternalServerError, models.DeleteTripResult{Success: false, Message: "Something went wrong!"})
		return
	}

	writeDeleteResult(w, http.StatusOK, models.DeleteTripResult{Success: true, Message: "Trip deleted successfully"})
}

// LeaveTripHandler removes a traveller from a trip. The last traveller out
// tears the whole trip down.
func (t Trip) LeaveTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	var req leaveTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	trip, err := t.DB.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		config.ErrorStatus("trip not found", http.StatusNotFound, w, err)
		return
	}

	isTraveller := false
	for _, id := range trip.Details.Travellers {
		if id == req.UserID {
			isTraveller = true
			break
		}
	}
	if !isTraveller {
		config.ErrorStatus("user is not a traveller on this trip", http.StatusForbidden, w, errNotTraveller)
		return
	}

	if len(trip.Details.Travellers) <= 1 {
		if err := t.teardownTrip(ctx, trip, trip.Details.Travellers); err != nil {
			zap.S().Errorf("failed to tear down trip %s: %v", tripID, err)
			config.ErrorStatus("failed to delete trip", http.StatusInternalServerError, w, err)
			return
		}
	} else {
		_, err = t.UDB.UpdateOne(ctx,
			bson.M{"_id": req.UserID},
			bson.M{"$pull": bson.M{"user.tripIds": tripID}})
		if err != nil {
			config.ErrorStatus("failed to remove trip from user", http.StatusInternalServerError, w, err)
			return
		}
		err = t.DB.UpdateOne(ctx,
			bson.M{"_id": tripID},
			bson.M{"$pull": bson.M{"trip.travellers": req.UserID}})
		if err != nil {
			config.ErrorStatus("failed to remove traveller from trip", http.StatusInternalServerError, w, err)
			return
		}
	}

	b, err := json.Marshal(map[string]string{"status": "left"})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// teardownTrip deletes the trip's sub-resources, then removes the trip doc
// and each traveller's membership in one transaction. If the transaction
// cannot commit the same writes are replayed as plain batch operations, so
// the worst case is a torn window, never a half-applied transaction.
func (t Trip) teardownTrip(ctx context.Context, trip *models.Trip, travellers []string) error {
	if err := t.deleteSubCollections(ctx, trip); err != nil {
		return err
	}

	err := t.DB.RemoveWithTravellers(ctx, trip.ID, travellers)
	if err == nil {
		return nil
	}
	zap.S().Warnf("transactional removal failed for trip %s, falling back to batch: %v", trip.ID, err)

	if _, err := t.UDB.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": travellers}},
		bson.M{"$pull": bson.M{"user.tripIds": trip.ID}}); err != nil {
		return err
	}
	return t.DB.DeleteOne(ctx, bson.M{"_id": trip.ID})
}

// deleteSubCollections clears every sub-resource of a trip. Each itinerary
// day and each resource collection is drained concurrently.
func (t Trip) deleteSubCollections(ctx context.Context, trip *models.Trip) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, dayID := range trip.Details.DayIDs {
		dayID := dayID
		g.Go(func() error {
			return t.deleteCollectionDocs(gctx, databases.ItineraryCollection, bson.M{"tripId": trip.ID, "dayId": dayID})
		})
	}
	for _, collection := range []string{databases.PackingCollection, databases.PlannedExpensesCollection, databases.OnTripExpensesCollection} {
		collection := collection
		g.Go(func() error {
			return t.deleteCollectionDocs(gctx, collection, bson.M{"tripId": trip.ID})
		})
	}

	return g.Wait()
}

func (t Trip) deleteCollectionDocs(ctx context.Context, collection string, filter bson.M) error {
	ids, err := t.RDB.FindIDs(ctx, collection, filter)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < len(ids); i += teardownBatchSize {
		end := i + teardownBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[i:end]
		g.Go(func() error {
			_, err := t.RDB.BulkDelete(gctx, collection, chunk)
			return err
		})
	}
	return g.Wait()
}

func writeDeleteResult(w http.ResponseWriter, code int, result models.DeleteTripResult) {
	b, err := json.Marshal(result)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(code)
	w.Write(b)
}
