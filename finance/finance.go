package finance

import (
	"fmt"
	"time"

	"github.com/kuryepanel/backend/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NetEarnings returns the payout after commission:
// earnings * (1 - rate/100). Computed on every read, never stored.
func NetEarnings(earnings, commissionRate float64) float64 {
	e := decimal.NewFromFloat(earnings)
	rate := decimal.NewFromFloat(commissionRate).Div(decimal.NewFromInt(100))
	net := e.Mul(decimal.NewFromInt(1).Sub(rate))
	f, _ := net.Round(2).Float64()
	return f
}

// FormatTRY renders an amount for transaction descriptions, e.g. "750.00 ₺".
func FormatTRY(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + " ₺"
}

// AdminUpdate carries the optional financial fields an admin may change.
// Nil means "leave untouched".
type AdminUpdate struct {
	Earnings       *float64
	Withdrawals    *float64
	DeliveryCount  *int
	CommissionRate *float64
}

// ChangeSet is the result of diffing an AdminUpdate against a user: the
// field values to persist and the audit transactions to append, one per
// changed field. Both must be committed together.
type ChangeSet struct {
	Earnings       *float64
	Withdrawals    *float64
	DeliveryCount  *int
	CommissionRate *float64
	Transactions   []models.Transaction
}

// Empty reports whether the update changed nothing.
func (c *ChangeSet) Empty() bool {
	return c.Earnings == nil && c.Withdrawals == nil && c.DeliveryCount == nil && c.CommissionRate == nil
}

// Apply mutates the in-memory user to match the change set, so the caller
// can return the updated snapshot without a re-read.
func (c *ChangeSet) Apply(u *models.User) {
	if c.Earnings != nil {
		u.Earnings = *c.Earnings
	}
	if c.Withdrawals != nil {
		u.Withdrawals = *c.Withdrawals
	}
	if c.DeliveryCount != nil {
		u.DeliveryCount = *c.DeliveryCount
	}
	if c.CommissionRate != nil {
		u.CommissionRate = c.CommissionRate
	}
	u.Transactions = append(u.Transactions, c.Transactions...)
}

func absDelta(oldV, newV float64) float64 {
	d := decimal.NewFromFloat(newV).Sub(decimal.NewFromFloat(oldV)).Abs()
	f, _ := d.Float64()
	return f
}

// BuildChanges diffs the requested update against the user's stored values.
// Fields equal to the stored value are skipped entirely, which makes a
// repeated identical update a no-op with no new transactions.
func BuildChanges(u *models.User, upd AdminUpdate, adminID primitive.ObjectID, now time.Time) ChangeSet {
	var cs ChangeSet

	if upd.Earnings != nil && *upd.Earnings != u.Earnings {
		oldV, newV := u.Earnings, *upd.Earnings
		cs.Earnings = upd.Earnings
		cs.Transactions = append(cs.Transactions, models.Transaction{
			ID:            primitive.NewObjectID(),
			Type:          models.TxEarning,
			Amount:        absDelta(oldV, newV),
			Status:        models.TxStatusCompleted,
			Date:          now,
			Description:   fmt.Sprintf("Kazanç %s -> %s olarak güncellendi", FormatTRY(oldV), FormatTRY(newV)),
			AdminAction:   true,
			AdminID:       adminID,
			PreviousValue: oldV,
			NewValue:      newV,
		})
	}

	if upd.Withdrawals != nil && *upd.Withdrawals != u.Withdrawals {
		oldV, newV := u.Withdrawals, *upd.Withdrawals
		cs.Withdrawals = upd.Withdrawals
		cs.Transactions = append(cs.Transactions, models.Transaction{
			ID:            primitive.NewObjectID(),
			Type:          models.TxWithdrawal,
			Amount:        absDelta(oldV, newV),
			Status:        models.TxStatusCompleted,
			Date:          now,
			Description:   fmt.Sprintf("Çekim %s -> %s olarak güncellendi", FormatTRY(oldV), FormatTRY(newV)),
			AdminAction:   true,
			AdminID:       adminID,
			PreviousValue: oldV,
			NewValue:      newV,
		})
	}

	if upd.DeliveryCount != nil && *upd.DeliveryCount != u.DeliveryCount {
		oldV, newV := u.DeliveryCount, *upd.DeliveryCount
		cs.DeliveryCount = upd.DeliveryCount
		cs.Transactions = append(cs.Transactions, models.Transaction{
			ID:            primitive.NewObjectID(),
			Type:          models.TxDelivery,
			Amount:        0,
			Status:        models.TxStatusCompleted,
			Date:          now,
			Description:   fmt.Sprintf("Teslimat sayısı %d -> %d olarak güncellendi", oldV, newV),
			AdminAction:   true,
			AdminID:       adminID,
			PreviousValue: float64(oldV),
			NewValue:      float64(newV),
		})
	}

	// Commission rate changes are not ledgered: no transaction type tracks
	// it. Diffing against the effective rate keeps an explicit 0 distinct
	// from "unset" while still skipping a redundant write of the default.
	if upd.CommissionRate != nil && *upd.CommissionRate != u.EffectiveCommissionRate() {
		cs.CommissionRate = upd.CommissionRate
	}

	return cs
}
