package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction types mirror the financial field they track.
const (
	TxEarning    = "earning"
	TxWithdrawal = "withdrawal"
	TxDelivery   = "delivery"
)

const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)

// Transaction is an append-only audit record embedded in the user document.
// PreviousValue and NewValue snapshot the financial field around the change;
// for admin-driven changes Amount equals |NewValue - PreviousValue|.
type Transaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type          string             `bson:"type" json:"type"`
	Amount        float64            `bson:"amount" json:"amount"`
	Status        string             `bson:"status" json:"status"`
	Date          time.Time          `bson:"date" json:"date"`
	Description   string             `bson:"description" json:"description"`
	AdminAction   bool               `bson:"adminAction" json:"adminAction"`
	AdminID       primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	PreviousValue float64            `bson:"previousValue" json:"previousValue"`
	NewValue      float64            `bson:"newValue" json:"newValue"`
}
