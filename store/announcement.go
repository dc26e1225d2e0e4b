package store

import (
	"context"

	"github.com/kuryepanel/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertAnnouncement(ctx context.Context, a *models.Announcement) (primitive.ObjectID, error) {
	res, err := db.Announcements().InsertOne(ctx, a, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	cur, err := db.Announcements().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Announcement
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (db *DB) AnnouncementByID(ctx context.Context, id primitive.ObjectID) (*models.Announcement, error) {
	var a models.Announcement
	err := db.Announcements().FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) UpdateAnnouncement(ctx context.Context, id primitive.ObjectID, title, body *string) error {
	set := bson.M{}
	if title != nil {
		set["title"] = *title
	}
	if body != nil {
		set["body"] = *body
	}
	if len(set) == 0 {
		return nil
	}
	_, err := db.Announcements().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (db *DB) DeleteAnnouncement(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.Announcements().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
