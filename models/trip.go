package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trip holds the structure for the trip collection in mongo. The document id
// doubles as the human-shareable room code used by join requests.
type Trip struct {
	ID      string      `json:"_id" bson:"_id"`
	Details TripDetails `json:"trip" bson:"trip"`
}

// TripDetails holds the structure for the inner trip document in mongo
type TripDetails struct {
	Title       string             `json:"title" bson:"title"`
	Destination string             `json:"destination" bson:"destination"`
	StartDate   string             `json:"startDate" bson:"startDate"`
	EndDate     string             `json:"endDate" bson:"endDate"`
	Budget      int                `json:"budget" bson:"budget"`
	ImageURL    string             `json:"imageUrl" bson:"imageUrl"`
	CreatedBy   string             `json:"createdBy" bson:"createdBy"`
	Travellers  []string           `json:"travellers" bson:"travellers"`
	DayIDs      []string           `json:"dayIds" bson:"dayIds"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// TravellerInfo is the resolved display info for a member of a trip
type TravellerInfo struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl"`
}

// DeleteTripResult is the structured outcome of a trip teardown. Teardown
// never raises past the handler boundary; failures land here instead.
type DeleteTripResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
