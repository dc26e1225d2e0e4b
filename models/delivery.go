package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DeliveryPending  = "pending"
	DeliveryApproved = "approved"
	DeliveryRejected = "rejected"
)

var ValidDeliveryStatuses = []string{DeliveryPending, DeliveryApproved, DeliveryRejected}

type Delivery struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ReceiptKey      string             `bson:"receiptKey" json:"-"` // object key in S3
	OriginalName    string             `bson:"originalName" json:"originalName"`
	Status          string             `bson:"status" json:"status"`
	AdminComment    string             `bson:"adminComment,omitempty" json:"adminComment,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	ReviewedAt      *time.Time         `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
}

// Deletable reports whether the owner may still remove the delivery.
// Approved and rejected deliveries are immutable for the user.
func (d *Delivery) Deletable() bool {
	return d.Status == DeliveryPending
}
