package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Nikhilsuthar09/vtrip-api/databases"
	"github.com/Nikhilsuthar09/vtrip-api/models"
)

// orphanGraceWindow keeps the sweep away from join requests that are still
// being written: the notification lands before the requestedIds doc, so a
// request younger than this may legitimately be missing its counterpart.
const orphanGraceWindow = time.Hour

// Scheduler runs the background repair jobs. A crash between the two halves
// of a join request, or between sub-resource deletion and trip removal,
// leaves orphan documents behind; the sweeps here reconcile them.
type Scheduler struct {
	cron       *cron.Cron
	TDB        databases.TripDatabase
	NDB        databases.NotificationDatabase
	RQDB       databases.JoinRequestDatabase
	RDB        databases.TripResourceDatabase
	LockDB     databases.SchedulerLockDatabase
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	tDB databases.TripDatabase,
	nDB databases.NotificationDatabase,
	rqDB databases.JoinRequestDatabase,
	rDB databases.TripResourceDatabase,
	lockDB databases.SchedulerLockDatabase,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		TDB:        tDB,
		NDB:        nDB,
		RQDB:       rqDB,
		RDB:        rDB,
		LockDB:     lockDB,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Reconcile orphaned join-request halves and sub-resources every 6 hours
	_, err := s.cron.AddFunc("0 */6 * * *", s.sweepOrphans)
	if err != nil {
		zap.S().Errorw("failed to register orphan sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Orphan sweep scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Orphan sweep scheduler stopped")
}

func (s *Scheduler) sweepOrphans() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "orphan_sweep_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for orphan sweep job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Orphan sweep already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "orphan_sweep_job", s.instanceID)

	zap.S().Infow("Running orphan sweep job", "instance", s.instanceID)

	s.sweepPendingRequests(ctx)
	s.sweepJoinRequestNotifications(ctx)
	s.sweepTripResources(ctx)
}

// sweepPendingRequests drops requestedIds docs whose trip or owner-side
// notification no longer exists
func (s *Scheduler) sweepPendingRequests(ctx context.Context) {
	requests, err := s.RQDB.Find(ctx, bson.M{"status": models.StatusPending})
	if err != nil {
		zap.S().Errorw("failed to list pending requests", "error", err)
		return
	}

	removed := 0
	for _, req := range requests {
		if time.Since(req.CreatedAt.Time()) < orphanGraceWindow {
			continue
		}
		tripCount, err := s.TDB.CountDocuments(ctx, bson.M{"_id": req.TripID})
		if err != nil {
			zap.S().Errorw("failed to check trip for pending request", "request", req.ID, "error", err)
			continue
		}
		orphaned := tripCount == 0
		if !orphaned {
			_, err := s.NDB.FindOne(ctx, bson.M{"_id": models.JoinRequestID(req.TripID, req.UserID)})
			if err != nil && err != mongo.ErrNoDocuments {
				zap.S().Errorw("failed to check notification for pending request", "request", req.ID, "error", err)
				continue
			}
			orphaned = err == mongo.ErrNoDocuments
		}
		if !orphaned {
			continue
		}
		if err := s.RQDB.DeleteOne(ctx, bson.M{"_id": req.ID}); err != nil {
			zap.S().Errorw("failed to delete orphaned pending request", "request", req.ID, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		zap.S().Infow("Removed orphaned pending requests", "count", removed)
	}
}

// sweepJoinRequestNotifications drops pending join-request notifications
// whose trip or requester-side record no longer exists
func (s *Scheduler) sweepJoinRequestNotifications(ctx context.Context) {
	notifications, err := s.NDB.Find(ctx, bson.M{
		"type":   models.NotificationTypeJoinRequest,
		"status": models.StatusPending,
	})
	if err != nil {
		zap.S().Errorw("failed to list pending join-request notifications", "error", err)
		return
	}

	removed := 0
	for _, n := range notifications {
		if time.Since(n.CreatedAt.Time()) < orphanGraceWindow {
			continue
		}
		tripCount, err := s.TDB.CountDocuments(ctx, bson.M{"_id": n.TripID})
		if err != nil {
			zap.S().Errorw("failed to check trip for notification", "notification", n.ID, "error", err)
			continue
		}
		orphaned := tripCount == 0
		if !orphaned {
			_, err := s.RQDB.FindOne(ctx, bson.M{"_id": models.PendingRequestID(n.RequesterUID, n.TripID)})
			if err != nil && err != mongo.ErrNoDocuments {
				zap.S().Errorw("failed to check requested record for notification", "notification", n.ID, "error", err)
				continue
			}
			orphaned = err == mongo.ErrNoDocuments
		}
		if !orphaned {
			continue
		}
		if err := s.NDB.DeleteOne(ctx, bson.M{"_id": n.ID}); err != nil {
			zap.S().Errorw("failed to delete orphaned notification", "notification", n.ID, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		zap.S().Infow("Removed orphaned join-request notifications", "count", removed)
	}
}

// sweepTripResources drops packing, expense and itinerary docs that refer to
// a trip that was already removed
func (s *Scheduler) sweepTripResources(ctx context.Context) {
	for _, collection := range databases.ResourceCollections {
		tripIDs, err := s.RDB.DistinctTripIDs(ctx, collection)
		if err != nil {
			zap.S().Errorw("failed to list trip ids", "collection", collection, "error", err)
			continue
		}
		for _, tripID := range tripIDs {
			count, err := s.TDB.CountDocuments(ctx, bson.M{"_id": tripID})
			if err != nil {
				zap.S().Errorw("failed to check trip", "trip", tripID, "error", err)
				continue
			}
			if count > 0 {
				continue
			}
			ids, err := s.RDB.FindIDs(ctx, collection, bson.M{"tripId": tripID})
			if err != nil {
				zap.S().Errorw("failed to list orphaned docs", "collection", collection, "trip", tripID, "error", err)
				continue
			}
			deleted, err := s.RDB.BulkDelete(ctx, collection, ids)
			if err != nil {
				zap.S().Errorw("failed to delete orphaned docs", "collection", collection, "trip", tripID, "error", err)
				continue
			}
			zap.S().Infow("Removed orphaned trip resources", "collection", collection, "trip", tripID, "count", deleted)
		}
	}
}
