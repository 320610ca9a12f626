package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User holds the structure for the user collection in mongo
type User struct {
	ID      string      `json:"_id" bson:"_id"`
	Details UserDetails `json:"user" bson:"user"`
}

// UserDetails holds the structure for the inner user structure as defined in the user collection in mongo.
// TripIDs is the membership ledger: it must stay a subset of the trips whose
// travellers array contains this user's id, and is only ever mutated with
// $addToSet / $pull so retried writes are safe.
type UserDetails struct {
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"password,omitempty" bson:"password"`
	ImgURL    string             `json:"imgUrl" bson:"imgUrl"`
	PushToken string             `json:"pushToken" bson:"pushToken"`
	TripIDs   []string           `json:"tripIds" bson:"tripIds"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
