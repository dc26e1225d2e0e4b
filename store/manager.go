package store

import (
	"context"

	"github.com/kuryepanel/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) ManagerByID(ctx context.Context, id primitive.ObjectID) (*models.Manager, error) {
	var m models.Manager
	err := db.Managers().FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (db *DB) ManagerByUsername(ctx context.Context, username string) (*models.Manager, error) {
	var m models.Manager
	err := db.Managers().FindOne(ctx, bson.M{"username": username}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (db *DB) ManagerByEmail(ctx context.Context, email string) (*models.Manager, error) {
	var m models.Manager
	err := db.Managers().FindOne(ctx, bson.M{"email": email}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (db *DB) CreateManager(ctx context.Context, m *models.Manager) (primitive.ObjectID, error) {
	res, err := db.Managers().InsertOne(ctx, m, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ListManagers(ctx context.Context) ([]models.Manager, error) {
	cur, err := db.Managers().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Manager
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (db *DB) UpdateManagerPermissions(ctx context.Context, id primitive.ObjectID, perms models.Permissions) error {
	_, err := db.Managers().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"permissions": perms}})
	return err
}

func (db *DB) DeleteManager(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.Managers().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
