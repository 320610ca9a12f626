package databases

// go generate: mockery --name JoinRequestDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Nikhilsuthar09/vtrip-api/models"
)

const joinRequestCollectionName = "requestedIds"

// JoinRequestDatabase contains the methods to use with the requestedIds database
type JoinRequestDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.JoinRequest, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.JoinRequest, error)
	Upsert(ctx context.Context, id string, request models.JoinRequest) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type joinRequestDatabase struct {
	db DatabaseHelper
}

// NewJoinRequestDatabase initializes a new instance of join request database with the provided db connection
func NewJoinRequestDatabase(db DatabaseHelper) JoinRequestDatabase {
	return &joinRequestDatabase{
		db: db,
	}
}

func (j *joinRequestDatabase) FindOne(ctx context.Context, filter interface{}) (*models.JoinRequest, error) {
	request := &models.JoinRequest{}
	err := j.db.Collection(joinRequestCollectionName).FindOne(ctx, filter).Decode(&request)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (j *joinRequestDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.JoinRequest, error) {
	cursor, err := j.db.Collection(joinRequestCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var requests []models.JoinRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (j *joinRequestDatabase) Upsert(ctx context.Context, id string, request models.JoinRequest) error {
	request.ID = id
	opts := options.Update().SetUpsert(true)
	_, err := j.db.Collection(joinRequestCollectionName).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": request},
		opts)
	return err
}

func (j *joinRequestDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := j.db.Collection(joinRequestCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}

func (j *joinRequestDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return j.db.Collection(joinRequestCollectionName).DeleteMany(ctx, filter, opts...)
}
