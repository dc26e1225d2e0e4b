package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants for user authorization.
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Verification status values for the ID-document flow.
const (
	VerificationPending   = "pending"
	VerificationSubmitted = "submitted"
	VerificationApproved  = "approved"
	VerificationRejected  = "rejected"
)

// DefaultCommissionRate is applied when a user has no explicit rate set.
const DefaultCommissionRate = 20.0

type IBANPayment struct {
	FullName string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	IBAN     string `bson:"iban,omitempty" json:"iban,omitempty"`
	BankName string `bson:"bankName,omitempty" json:"bankName,omitempty"`
}

// CryptoPayment holds a TRX payout destination. The mnemonic is write-only:
// it is stored AES-GCM encrypted and never serialized back to clients.
type CryptoPayment struct {
	TRXAddress  string `bson:"trxAddress,omitempty" json:"trxAddress,omitempty"`
	MnemonicKey string `bson:"mnemonicKey,omitempty" json:"-"`
}

type Verification struct {
	Status          string     `bson:"status" json:"status"`
	IDFrontKey      string     `bson:"idFrontKey,omitempty" json:"-"`
	IDBackKey       string     `bson:"idBackKey,omitempty" json:"-"`
	SubmittedAt     *time.Time `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	ReviewedAt      *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	RejectionReason string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"` // bcrypt hash
	Role         string             `bson:"role" json:"role"`
	IsVerified   bool               `bson:"isVerified" json:"isVerified"`
	Verification Verification       `bson:"verification" json:"verification"`

	Earnings      float64 `bson:"earnings" json:"earnings"`
	Withdrawals   float64 `bson:"withdrawals" json:"withdrawals"`
	DeliveryCount int     `bson:"deliveryCount" json:"deliveryCount"`
	// Nil means "never set"; an explicit 0 is a valid rate and must not
	// fall back to the default.
	CommissionRate *float64 `bson:"commissionRate,omitempty" json:"commissionRate,omitempty"`

	IBANPayment   *IBANPayment   `bson:"ibanPayment,omitempty" json:"ibanPayment,omitempty"`
	CryptoPayment *CryptoPayment `bson:"cryptoPayment,omitempty" json:"cryptoPayment,omitempty"`

	Transactions []Transaction `bson:"transactions" json:"transactions"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EffectiveCommissionRate returns the stored rate, or the default when unset.
func (u *User) EffectiveCommissionRate() float64 {
	if u.CommissionRate == nil {
		return DefaultCommissionRate
	}
	return *u.CommissionRate
}
