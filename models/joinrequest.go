package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JoinRequest is the requester-side half of a pending join request, stored in
// the requestedIds collection. The owner-side half is the Notification with
// the matching trip and requester ids; the two are created together and must
// be removed together once the request is resolved.
type JoinRequest struct {
	ID        string             `json:"_id" bson:"_id"`
	UserID    string             `json:"userId" bson:"userId"`
	TripID    string             `json:"tripId" bson:"tripId"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// PendingRequestID builds the deterministic requestedIds document id
func PendingRequestID(requesterUID, tripID string) string {
	return requesterUID + "_" + tripID
}
