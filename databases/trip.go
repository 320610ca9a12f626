package databases

// go generate: mockery --name TripDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Nikhilsuthar09/vtrip-api/models"
)

const tripCollectionName = "trips"

// TripDatabase contains the methods to use with the trip database
type TripDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Trip, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Trip, error)
	InsertOne(ctx context.Context, trip models.Trip, opts ...*options.InsertOneOptions) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	RemoveWithTravellers(ctx context.Context, tripID string, travellerIDs []string) error
}

type tripDatabase struct {
	db DatabaseHelper
}

// NewTripDatabase initializes a new instance of trip database with the provided db connection
func NewTripDatabase(db DatabaseHelper) TripDatabase {
	return &tripDatabase{
		db: db,
	}
}

func (t *tripDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Trip, error) {
	trip := &models.Trip{}
	err := t.db.Collection(tripCollectionName).FindOne(ctx, filter).Decode(&trip)
	if err != nil {
		return nil, err
	}
	return trip, nil
}

func (t *tripDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Trip, error) {
	cursor, err := t.db.Collection(tripCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var trips []models.Trip
	if err = cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (t *tripDatabase) InsertOne(ctx context.Context, trip models.Trip, opts ...*options.InsertOneOptions) error {
	_, err := t.db.Collection(tripCollectionName).InsertOne(ctx, trip, opts...)
	return err
}

func (t *tripDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := t.db.Collection(tripCollectionName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (t *tripDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := t.db.Collection(tripCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}

func (t *tripDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return t.db.Collection(tripCollectionName).CountDocuments(ctx, filter, opts...)
}

// RemoveWithTravellers removes the trip document and pulls the trip id from
// every traveller's tripIds inside one transaction. The trip is re-read first
// so a trip deleted by a concurrent caller aborts the transaction instead of
// resurrecting half its state.
func (t *tripDatabase) RemoveWithTravellers(ctx context.Context, tripID string, travellerIDs []string) error {
	return t.db.Client().WithTransaction(ctx, func(sc mongo.SessionContext) error {
		trip := &models.Trip{}
		err := t.db.Collection(tripCollectionName).FindOne(sc, bson.M{"_id": tripID}).Decode(&trip)
		if err != nil {
			return err
		}

		for _, userID := range travellerIDs {
			_, err = t.db.Collection(userCollectionName).UpdateOne(sc,
				bson.M{"_id": userID},
				bson.M{"$pull": bson.M{"user.tripIds": tripID}})
			if err != nil {
				return err
			}
		}

		_, err = t.db.Collection(tripCollectionName).DeleteOne(sc, bson.M{"_id": tripID})
		return err
	})
}
