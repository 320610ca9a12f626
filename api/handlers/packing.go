package handlers

import (
	"encoding/json"
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

type packingItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Packed   *bool  `json:"packed"`
}

// GetPackingItemsHandler returns a trip's packing list
func (t Trip) GetPackingItemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	items := []models.PackingItem{}
	err := t.RDB.Find(ctx, databases.PackingCollection,
		bson.M{"tripId": tripID},
		&items,
		options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		config.ErrorStatus("failed to get packing items", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(items)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddPackingItemHandler adds an item to a trip's packing list
func (t Trip) AddPackingItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	var req packingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Name == "" {
		config.ErrorStatus("item name is required", http.StatusBadRequest, w, errInvalidInput)
		return
	}

	if _, err := t.DB.FindOne(ctx, bson.M{"_id": tripID}); err != nil {
		config.ErrorStatus("failed to get trip by ID", http.StatusNotFound, w, err)
		return
	}

	item := models.PackingItem{
		ID:        uuid.New().String(),
		TripID:    tripID,
		Name:      req.Name,
		Category:  req.Category,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		UpdatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := t.RDB.InsertOne(ctx, databases.PackingCollection, item); err != nil {
		config.ErrorStatus("failed to insert packing item", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(item)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdatePackingItemHandler renames, recategorises or toggles an item
func (t Trip) UpdatePackingItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]
	itemID := mux.Vars(r)["item_id"]

	var req packingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Category != "" {
		set["category"] = req.Category
	}
	if req.Packed != nil {
		set["packed"] = *req.Packed
	}

	result, err := t.RDB.UpdateOne(ctx, databases.PackingCollection,
		bson.M{"_id": itemID, "tripId": tripID},
		bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update packing item", http.StatusInternalServerError, w, err)
		return
	}
	if result.MatchedCount == 0 {
		config.ErrorStatus("packing item not found", http.StatusNotFound, w, errInvalidInput)
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

// DeletePackingItemHandler removes an item from the packing list
func (t Trip) DeletePackingItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]
	itemID := mux.Vars(r)["item_id"]

	err := t.RDB.DeleteOne(ctx, databases.PackingCollection,
		bson.M{"_id": itemID, "tripId": tripID})
	if err != nil {
		config.ErrorStatus("failed to delete packing item", http.StatusInternalServerError, w, err)
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
