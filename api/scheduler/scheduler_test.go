package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Nikhilsuthar09/vtrip-api/databases/mocks"
	"github.com/Nikhilsuthar09/vtrip-api/models"
)

func stalePendingRequest() models.JoinRequest {
	return models.JoinRequest{
		ID:        "requester-1_AB12C",
		UserID:    "requester-1",
		TripID:    "AB12C",
		Status:    models.StatusPending,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now().Add(-2 * time.Hour)),
	}
}

func TestScheduler_SweepPendingRequestsKeepsRequestOnTransientError(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	ndb := &mocks.NotificationDatabase{}
	rqdb := &mocks.JoinRequestDatabase{}

	ctx := context.Background()
	rqdb.On("Find", ctx, bson.M{"status": models.StatusPending}).
		Return([]models.JoinRequest{stalePendingRequest()}, nil)
	tdb.On("CountDocuments", ctx, bson.M{"_id": "AB12C"}).Return(int64(1), nil)
	// a lookup failure is not evidence the counterpart is gone
	ndb.On("FindOne", ctx, bson.M{"_id": "AB12C_requester-1"}).
		Return(nil, errors.New("network timeout"))

	s := &Scheduler{TDB: tdb, NDB: ndb, RQDB: rqdb}
	s.sweepPendingRequests(ctx)

	rqdb.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestScheduler_SweepPendingRequestsRemovesOrphan(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	ndb := &mocks.NotificationDatabase{}
	rqdb := &mocks.JoinRequestDatabase{}

	ctx := context.Background()
	rqdb.On("Find", ctx, bson.M{"status": models.StatusPending}).
		Return([]models.JoinRequest{stalePendingRequest()}, nil)
	tdb.On("CountDocuments", ctx, bson.M{"_id": "AB12C"}).Return(int64(1), nil)
	ndb.On("FindOne", ctx, bson.M{"_id": "AB12C_requester-1"}).
		Return(nil, mongo.ErrNoDocuments)
	rqdb.On("DeleteOne", ctx, bson.M{"_id": "requester-1_AB12C"}).Return(nil)

	s := &Scheduler{TDB: tdb, NDB: ndb, RQDB: rqdb}
	s.sweepPendingRequests(ctx)

	rqdb.AssertExpectations(t)
}

func TestScheduler_SweepPendingRequestsSkipsRecentRequest(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	ndb := &mocks.NotificationDatabase{}
	rqdb := &mocks.JoinRequestDatabase{}

	fresh := stalePendingRequest()
	fresh.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	ctx := context.Background()
	rqdb.On("Find", ctx, bson.M{"status": models.StatusPending}).
		Return([]models.JoinRequest{fresh}, nil)

	s := &Scheduler{TDB: tdb, NDB: ndb, RQDB: rqdb}
	s.sweepPendingRequests(ctx)

	// a request inside the grace window may still be mid-write
	tdb.AssertNotCalled(t, "CountDocuments", mock.Anything, mock.Anything)
	rqdb.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestScheduler_SweepNotificationsKeepsNotificationOnTransientError(t *testing.T) {
	tdb := &mocks.TripDatabase{}
	ndb := &mocks.NotificationDatabase{}
	rqdb := &mocks.JoinRequestDatabase{}

	ctx := context.Background()
	ndb.On("Find", ctx, bson.M{
		"type":   models.NotificationTypeJoinRequest,
		"status": models.StatusPending,
	}).Return([]models.Notification{{
		ID:           "AB12C_requester-1",
		UserID:       "owner-1",
		Type:         models.NotificationTypeJoinRequest,
		RequesterUID: "requester-1",
		TripID:       "AB12C",
		Status:       models.StatusPending,
		CreatedAt:    primitive.NewDateTimeFromTime(time.Now().Add(-2 * time.Hour)),
	}}, nil)
	tdb.On("CountDocuments", ctx, bson.M{"_id": "AB12C"}).Return(int64(1), nil)
	rqdb.On("FindOne", ctx, bson.M{"_id": "requester-1_AB12C"}).
		Return(nil, errors.New("network timeout"))

	s := &Scheduler{TDB: tdb, NDB: ndb, RQDB: rqdb}
	s.sweepJoinRequestNotifications(ctx)

	ndb.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}
