package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PackingItem holds the structure for the packing collection in mongo
type PackingItem struct {
	ID        string             `json:"_id" bson:"_id"`
	TripID    string             `json:"tripId" bson:"tripId"`
	Name      string             `json:"name" bson:"name"`
	Category  string             `json:"category" bson:"category"`
	Packed    bool               `json:"packed" bson:"packed"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
