package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeJoinRequest = "join_request"
	NotificationTypeReqAccepted = "req_accepted"
)

// Join request statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Notification holds the structure for the notifications collection in mongo.
// Join request notifications use the deterministic id "<tripId>_<requesterUid>"
// so a resubmitted request overwrites the previous entry instead of
// duplicating it.
type Notification struct {
	ID           string             `json:"_id" bson:"_id"`
	UserID       string             `json:"userId" bson:"userId"`
	Type         string             `json:"type" bson:"type"`
	Title        string             `json:"title" bson:"title"`
	Body         string             `json:"body" bson:"body"`
	RequesterUID string             `json:"requesterUid" bson:"requesterUid"`
	TripID       string             `json:"tripId" bson:"tripId"`
	Status       string             `json:"status" bson:"status"`
	Unread       bool               `json:"unread" bson:"unread"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// JoinRequestID builds the deterministic notification id for a join request
func JoinRequestID(tripID, requesterUID string) string {
	return tripID + "_" + requesterUID
}
