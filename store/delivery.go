package store

import (
	"context"
	"time"

	"github.com/kuryepanel/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertDelivery(ctx context.Context, d *models.Delivery) (primitive.ObjectID, error) {
	res, err := db.Deliveries().InsertOne(ctx, d, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) DeliveryByID(ctx context.Context, id primitive.ObjectID) (*models.Delivery, error) {
	var d models.Delivery
	err := db.Deliveries().FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (db *DB) DeliveriesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Delivery, error) {
	cur, err := db.Deliveries().Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Delivery
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllDeliveries lists every delivery, optionally filtered by status.
func (db *DB) AllDeliveries(ctx context.Context, status string) ([]models.Delivery, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cur, err := db.Deliveries().Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Delivery
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDeliveryStatus sets status plus the optional review fields. No
// transition guard: an admin may move a delivery between any states.
func (db *DB) UpdateDeliveryStatus(ctx context.Context, id primitive.ObjectID, status, comment, reason string, at time.Time) error {
	set := bson.M{"status": status, "reviewedAt": at}
	if comment != "" {
		set["adminComment"] = comment
	}
	if reason != "" {
		set["rejectionReason"] = reason
	}
	_, err := db.Deliveries().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// DeleteDelivery removes a delivery and returns its receipt key so the
// caller can clean up storage.
func (db *DB) DeleteDelivery(ctx context.Context, id primitive.ObjectID) (receiptKey string, err error) {
	var d models.Delivery
	err = db.Deliveries().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		return "", err
	}
	return d.ReceiptKey, nil
}
