package databases

// go generate: mockery --name TripResourceDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nested trip resource collections. These are the collections trip teardown
// enumerates; itinerary activities additionally carry a dayId drawn from the
// trip's dayIds array.
const (
	PackingCollection         = "packing"
	PlannedExpensesCollection = "plannedExpenses"
	OnTripExpensesCollection  = "onTripExpenses"
	ItineraryCollection       = "itinerary"
)

// ResourceCollections lists every nested trip collection for enumeration
var ResourceCollections = []string{
	PackingCollection,
	PlannedExpensesCollection,
	OnTripExpensesCollection,
	ItineraryCollection,
}

// TripResourceDatabase gives access to the nested trip resource collections
// by name, so teardown and the orphan sweep can treat them uniformly
type TripResourceDatabase interface {
	Find(ctx context.Context, collection string, filter interface{}, results interface{}, opts ...*options.FindOptions) error
	FindIDs(ctx context.Context, collection string, filter interface{}) ([]string, error)
	InsertOne(ctx context.Context, collection string, document interface{}) error
	UpdateOne(ctx context.Context, collection string, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, collection string, filter interface{}) error
	BulkDelete(ctx context.Context, collection string, ids []string) (int64, error)
	CountDocuments(ctx context.Context, collection string, filter interface{}) (int64, error)
	DistinctTripIDs(ctx context.Context, collection string) ([]string, error)
}

type tripResourceDatabase struct {
	db DatabaseHelper
}

// NewTripResourceDatabase initializes a new instance of trip resource database with the provided db connection
func NewTripResourceDatabase(db DatabaseHelper) TripResourceDatabase {
	return &tripResourceDatabase{
		db: db,
	}
}

func (t *tripResourceDatabase) Find(ctx context.Context, collection string, filter interface{}, results interface{}, opts ...*options.FindOptions) error {
	cursor, err := t.db.Collection(collection).Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}

// FindIDs enumerates the ids of every document matching the filter
func (t *tripResourceDatabase) FindIDs(ctx context.Context, collection string, filter interface{}) ([]string, error) {
	cursor, err := t.db.Collection(collection).Find(ctx, filter,
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (t *tripResourceDatabase) InsertOne(ctx context.Context, collection string, document interface{}) error {
	_, err := t.db.Collection(collection).InsertOne(ctx, document)
	return err
}

func (t *tripResourceDatabase) UpdateOne(ctx context.Context, collection string, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return t.db.Collection(collection).UpdateOne(ctx, filter, update, opts...)
}

func (t *tripResourceDatabase) DeleteOne(ctx context.Context, collection string, filter interface{}) error {
	_, err := t.db.Collection(collection).DeleteOne(ctx, filter)
	return err
}

// BulkDelete removes one chunk of documents by id in a single bulk write.
// Deleting an id that is already gone is a no-op, so an interrupted teardown
// can simply be re-run.
func (t *tripResourceDatabase) BulkDelete(ctx context.Context, collection string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	writes := make([]mongo.WriteModel, 0, len(ids))
	for _, id := range ids {
		writes = append(writes, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": id}))
	}
	res, err := t.db.Collection(collection).BulkWrite(ctx, writes,
		options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (t *tripResourceDatabase) CountDocuments(ctx context.Context, collection string, filter interface{}) (int64, error) {
	return t.db.Collection(collection).CountDocuments(ctx, filter)
}

func (t *tripResourceDatabase) DistinctTripIDs(ctx context.Context, collection string) ([]string, error) {
	values, err := t.db.Collection(collection).Distinct(ctx, "tripId", bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
