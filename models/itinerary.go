package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity holds the structure for the itinerary collection in mongo.
// Activities are indexed by (tripId, dayId); the trip's dayIds array lists
// the days that currently have at least one activity.
type Activity struct {
	ID          string             `json:"_id" bson:"_id"`
	TripID      string             `json:"tripId" bson:"tripId"`
	DayID       string             `json:"dayId" bson:"dayId"`
	Title       string             `json:"title" bson:"title"`
	Time        string             `json:"time" bson:"time"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// JourneyDay is a derived itinerary day; it is computed from the trip's date
// range and never stored
type JourneyDay struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	DayNumber int    `json:"dayNumber"`
	RawDate   string `json:"rawDate"`
}
