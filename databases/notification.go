package databases

// go generate: mockery --name NotificationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Nikhilsuthar09/vtrip-api/models"
)

const notificationCollectionName = "notifications"

// NotificationDatabase contains the methods to use with the notifications database
type NotificationDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Notification, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Notification, error)
	Upsert(ctx context.Context, id string, notification models.Notification) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type notificationDatabase struct {
	db DatabaseHelper
}

// NewNotificationDatabase initializes a new instance of notification database with the provided db connection
func NewNotificationDatabase(db DatabaseHelper) NotificationDatabase {
	return &notificationDatabase{
		db: db,
	}
}

func (n *notificationDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Notification, error) {
	notification := &models.Notification{}
	err := n.db.Collection(notificationCollectionName).FindOne(ctx, filter).Decode(&notification)
	if err != nil {
		return nil, err
	}
	return notification, nil
}

func (n *notificationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Notification, error) {
	cursor, err := n.db.Collection(notificationCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// Upsert writes the notification under the given id, replacing any previous
// entry. Join request notifications rely on this for retry idempotency.
func (n *notificationDatabase) Upsert(ctx context.Context, id string, notification models.Notification) error {
	notification.ID = id
	opts := options.Update().SetUpsert(true)
	_, err := n.db.Collection(notificationCollectionName).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": notification},
		opts)
	return err
}

func (n *notificationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := n.db.Collection(notificationCollectionName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (n *notificationDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := n.db.Collection(notificationCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}

func (n *notificationDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return n.db.Collection(notificationCollectionName).DeleteMany(ctx, filter, opts...)
}
