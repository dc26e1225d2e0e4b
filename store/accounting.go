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

func (db *DB) InsertEntry(ctx context.Context, e *models.AccountingEntry) (primitive.ObjectID, error) {
	res, err := db.Accounting().InsertOne(ctx, e, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// ListEntries filters by type and an inclusive date range; zero times and
// an empty type mean no filter.
func (db *DB) ListEntries(ctx context.Context, entryType string, from, to time.Time) ([]models.AccountingEntry, error) {
	filter := bson.M{}
	if entryType != "" {
		filter["type"] = entryType
	}
	dateRange := bson.M{}
	if !from.IsZero() {
		dateRange["$gte"] = from
	}
	if !to.IsZero() {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	cur, err := db.Accounting().Find(ctx, filter, options.Find().SetSort(bson.M{"date": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.AccountingEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (db *DB) EntryByID(ctx context.Context, id primitive.ObjectID) (*models.AccountingEntry, error) {
	var e models.AccountingEntry
	err := db.Accounting().FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (db *DB) UpdateEntry(ctx context.Context, id primitive.ObjectID, amount *float64, description *string, date *time.Time) error {
	set := bson.M{}
	if amount != nil {
		set["amount"] = *amount
	}
	if description != nil {
		set["description"] = *description
	}
	if date != nil {
		set["date"] = *date
	}
	if len(set) == 0 {
		return nil
	}
	_, err := db.Accounting().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (db *DB) DeleteEntry(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.Accounting().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
