package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	zap.L().Info("connected to MongoDB", zap.String("db", dbName))
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (db *DB) Users() *mongo.Collection {
	return db.Database.Collection("users")
}

func (db *DB) Managers() *mongo.Collection {
	return db.Database.Collection("managers")
}

func (db *DB) Deliveries() *mongo.Collection {
	return db.Database.Collection("deliveries")
}

func (db *DB) Accounting() *mongo.Collection {
	return db.Database.Collection("accounting")
}

func (db *DB) Announcements() *mongo.Collection {
	return db.Database.Collection("announcements")
}

// EnsureIndexes creates the unique username/email indexes so duplicate
// registrations fail at the database as well as the handler check.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	userIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Users().Indexes().CreateMany(ctx, userIdx); err != nil {
		return err
	}
	mgrIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Managers().Indexes().CreateMany(ctx, mgrIdx); err != nil {
		return err
	}
	delIdx := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}
	if _, err := db.Deliveries().Indexes().CreateOne(ctx, delIdx); err != nil {
		return err
	}
	accIdx := mongo.IndexModel{Keys: bson.D{{Key: "type", Value: 1}, {Key: "date", Value: -1}}}
	_, err := db.Accounting().Indexes().CreateOne(ctx, accIdx)
	return err
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}
