package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlannedExpense holds the structure for the plannedExpenses collection in mongo
type PlannedExpense struct {
	ID        string             `json:"_id" bson:"_id"`
	TripID    string             `json:"tripId" bson:"tripId"`
	Title     string             `json:"title" bson:"title"`
	Amount    float64            `json:"amount" bson:"amount"`
	Category  string             `json:"category" bson:"category"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// OnTripExpense holds the structure for the onTripExpenses collection in mongo
type OnTripExpense struct {
	ID        string             `json:"_id" bson:"_id"`
	TripID    string             `json:"tripId" bson:"tripId"`
	Title     string             `json:"title" bson:"title"`
	Amount    float64            `json:"amount" bson:"amount"`
	Type      string             `json:"type" bson:"type"`
	PaidBy    string             `json:"paidBy" bson:"paidBy"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
