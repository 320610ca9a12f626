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

type plannedExpenseRequest struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

type onTripExpenseRequest struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
	PaidBy string  `json:"paidBy"`
}

// GetPlannedExpensesHandler returns a trip's pre-trip budget lines
func (t Trip) GetPlannedExpensesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	expenses := []models.PlannedExpense{}
	err := t.RDB.Find(ctx, databases.PlannedExpensesCollection,
		bson.M{"tripId": tripID},
		&expenses,
		options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		config.ErrorStatus("failed to get planned expenses", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(expenses)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddPlannedExpenseHandler adds a budget line to a trip
func (t Trip) AddPlannedExpenseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	var req plannedExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Title == "" || req.Amount <= 0 {
		config.ErrorStatus("title and a positive amount are required", http.StatusBadRequest, w, errInvalidInput)
		return
	}

	if _, err := t.DB.FindOne(ctx, bson.M{"_id": tripID}); err != nil {
		config.ErrorStatus("failed to get trip by ID", http.StatusNotFound, w, err)
		return
	}

	expense := models.PlannedExpense{
		ID:        uuid.New().String(),
		TripID:    tripID,
		Title:     req.Title,
		Amount:    req.Amount,
		Category:  req.Category,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		UpdatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := t.RDB.InsertOne(ctx, databases.PlannedExpensesCollection, expense); err != nil {
		config.ErrorStatus("failed to insert planned expense", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(expense)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// DeletePlannedExpenseHandler removes a budget line
func (t Trip) DeletePlannedExpenseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]
	expenseID := mux.Vars(r)["expense_id"]

	err := t.RDB.DeleteOne(ctx, databases.PlannedExpensesCollection,
		bson.M{"_id": expenseID, "tripId": tripID})
	if err != nil {
		config.ErrorStatus("failed to delete planned expense", http.StatusInternalServerError, w, err)
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

// GetOnTripExpensesHandler returns the expenses logged during the trip
func (t Trip) GetOnTripExpensesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	expenses := []models.OnTripExpense{}
	err := t.RDB.Find(ctx, databases.OnTripExpensesCollection,
		bson.M{"tripId": tripID},
		&expenses,
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("failed to get expenses", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(expenses)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddOnTripExpenseHandler logs an expense made during the trip
func (t Trip) AddOnTripExpenseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]

	var req onTripExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Title == "" || req.Amount <= 0 {
		config.ErrorStatus("title and a positive amount are required", http.StatusBadRequest, w, errInvalidInput)
		return
	}

	if _, err := t.DB.FindOne(ctx, bson.M{"_id": tripID}); err != nil {
		config.ErrorStatus("failed to get trip by ID", http.StatusNotFound, w, err)
		return
	}

	expense := models.OnTripExpense{
		ID:        uuid.New().String(),
		TripID:    tripID,
		Title:     req.Title,
		Amount:    req.Amount,
		Type:      req.Type,
		PaidBy:    req.PaidBy,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		UpdatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := t.RDB.InsertOne(ctx, databases.OnTripExpensesCollection, expense); err != nil {
		config.ErrorStatus("failed to insert expense", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(expense)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// DeleteOnTripExpenseHandler removes a logged expense
func (t Trip) DeleteOnTripExpenseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tripID := mux.Vars(r)["trip_id"]
	expenseID := mux.Vars(r)["expense_id"]

	err := t.RDB.DeleteOne(ctx, databases.OnTripExpensesCollection,
		bson.M{"_id": expenseID, "tripId": tripID})
	if err != nil {
		config.ErrorStatus("failed to delete expense", http.StatusInternalServerError, w, err)
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
