package store

import (
	"context"
	"time"

	"github.com/kuryepanel/backend/finance"
	"github.com/kuryepanel/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	res, err := db.Users().InsertOne(ctx, user, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := db.Users().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UsersWithEarnings returns users with earnings > 0 for the accounting summary.
func (db *DB) UsersWithEarnings(ctx context.Context) ([]models.User, error) {
	cur, err := db.Users().Find(ctx, bson.M{"earnings": bson.M{"$gt": 0}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (db *DB) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.Users().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ApplyFinanceUpdate persists a change set in a single update so the field
// values and their audit transactions commit together.
func (db *DB) ApplyFinanceUpdate(ctx context.Context, id primitive.ObjectID, cs *finance.ChangeSet) error {
	set := bson.M{"updatedAt": time.Now()}
	if cs.Earnings != nil {
		set["earnings"] = *cs.Earnings
	}
	if cs.Withdrawals != nil {
		set["withdrawals"] = *cs.Withdrawals
	}
	if cs.DeliveryCount != nil {
		set["deliveryCount"] = *cs.DeliveryCount
	}
	if cs.CommissionRate != nil {
		set["commissionRate"] = *cs.CommissionRate
	}
	update := bson.M{"$set": set}
	if len(cs.Transactions) > 0 {
		update["$push"] = bson.M{"transactions": bson.M{"$each": cs.Transactions}}
	}
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// IncDeliveryCount adjusts the counter when a delivery is created or a
// pending one is deleted.
func (db *DB) IncDeliveryCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"deliveryCount": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	return err
}

func (db *DB) UpdateIBANPayment(ctx context.Context, id primitive.ObjectID, p *models.IBANPayment) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"ibanPayment": p, "updatedAt": time.Now()},
	})
	return err
}

func (db *DB) UpdateCryptoPayment(ctx context.Context, id primitive.ObjectID, p *models.CryptoPayment) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"cryptoPayment": p, "updatedAt": time.Now()},
	})
	return err
}

// SubmitVerification stores the uploaded ID document keys and marks the
// user as submitted.
func (db *DB) SubmitVerification(ctx context.Context, id primitive.ObjectID, frontKey, backKey string, at time.Time) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"verification.status":      models.VerificationSubmitted,
			"verification.idFrontKey":  frontKey,
			"verification.idBackKey":   backKey,
			"verification.submittedAt": at,
			"updatedAt":                at,
		},
	})
	return err
}

// ReviewVerification records an admin approve/reject decision.
func (db *DB) ReviewVerification(ctx context.Context, id primitive.ObjectID, approved bool, reason string, at time.Time) error {
	status := models.VerificationRejected
	if approved {
		status = models.VerificationApproved
	}
	set := bson.M{
		"verification.status":     status,
		"verification.reviewedAt": at,
		"isVerified":              approved,
		"updatedAt":               at,
	}
	if !approved && reason != "" {
		set["verification.rejectionReason"] = reason
	}
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}
