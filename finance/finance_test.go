package finance

import (
	"testing"
	"time"

	"github.com/kuryepanel/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNetEarnings(t *testing.T) {
	if got := NetEarnings(1000, 20); got != 800 {
		t.Errorf("NetEarnings(1000, 20) = %v, want 800", got)
	}
	if got := NetEarnings(0, 20); got != 0 {
		t.Errorf("NetEarnings(0, 20) = %v, want 0", got)
	}
	if got := NetEarnings(0, 95); got != 0 {
		t.Errorf("NetEarnings(0, 95) = %v, want 0", got)
	}
	if got := NetEarnings(250, 0); got != 250 {
		t.Errorf("NetEarnings(250, 0) = %v, want 250", got)
	}
	// Rates over 100 are a data-entry problem; the math still holds.
	if got := NetEarnings(100, 150); got != -50 {
		t.Errorf("NetEarnings(100, 150) = %v, want -50", got)
	}
}

func f64(v float64) *float64 { return &v }

func testUser() *models.User {
	return &models.User{
		ID:             primitive.NewObjectID(),
		Username:       "kurye1",
		Earnings:       500,
		Withdrawals:    100,
		DeliveryCount:  12,
		CommissionRate: f64(20),
	}
}

func TestBuildChanges_EarningsUpdate(t *testing.T) {
	u := testUser()
	adminID := primitive.NewObjectID()
	now := time.Now()

	cs := BuildChanges(u, AdminUpdate{Earnings: f64(750)}, adminID, now)

	if cs.Empty() {
		t.Fatal("expected a change set, got empty")
	}
	if len(cs.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(cs.Transactions))
	}
	tx := cs.Transactions[0]
	if tx.Type != models.TxEarning {
		t.Errorf("type = %q, want %q", tx.Type, models.TxEarning)
	}
	if tx.PreviousValue != 500 || tx.NewValue != 750 {
		t.Errorf("snapshot = %v -> %v, want 500 -> 750", tx.PreviousValue, tx.NewValue)
	}
	if tx.Amount != 250 {
		t.Errorf("amount = %v, want 250", tx.Amount)
	}
	if !tx.AdminAction || tx.AdminID != adminID {
		t.Error("transaction must record the acting admin")
	}
	if tx.Status != models.TxStatusCompleted {
		t.Errorf("status = %q, want completed", tx.Status)
	}

	cs.Apply(u)
	if u.Earnings != 750 {
		t.Errorf("earnings after apply = %v, want 750", u.Earnings)
	}
	if len(u.Transactions) != 1 {
		t.Errorf("user transactions after apply = %d, want 1", len(u.Transactions))
	}
}

func TestBuildChanges_AmountIsAbsoluteDelta(t *testing.T) {
	u := testUser()
	cs := BuildChanges(u, AdminUpdate{Withdrawals: f64(40)}, primitive.NewObjectID(), time.Now())
	if len(cs.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(cs.Transactions))
	}
	tx := cs.Transactions[0]
	if tx.Type != models.TxWithdrawal {
		t.Errorf("type = %q, want %q", tx.Type, models.TxWithdrawal)
	}
	// 100 -> 40 is a decrease; amount stays positive.
	if tx.Amount != 60 {
		t.Errorf("amount = %v, want 60", tx.Amount)
	}
}

func TestBuildChanges_DeliveryCount(t *testing.T) {
	u := testUser()
	n := 15
	cs := BuildChanges(u, AdminUpdate{DeliveryCount: &n}, primitive.NewObjectID(), time.Now())
	if len(cs.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(cs.Transactions))
	}
	tx := cs.Transactions[0]
	if tx.Type != models.TxDelivery {
		t.Errorf("type = %q, want %q", tx.Type, models.TxDelivery)
	}
	if tx.Amount != 0 {
		t.Errorf("delivery transaction amount = %v, want 0", tx.Amount)
	}
	if tx.PreviousValue != 12 || tx.NewValue != 15 {
		t.Errorf("snapshot = %v -> %v, want 12 -> 15", tx.PreviousValue, tx.NewValue)
	}
}

func TestBuildChanges_OneTransactionPerChangedField(t *testing.T) {
	u := testUser()
	n := 13
	cs := BuildChanges(u, AdminUpdate{
		Earnings:      f64(600),
		Withdrawals:   f64(150),
		DeliveryCount: &n,
	}, primitive.NewObjectID(), time.Now())
	if len(cs.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(cs.Transactions))
	}
	seen := map[string]bool{}
	for _, tx := range cs.Transactions {
		seen[tx.Type] = true
	}
	for _, want := range []string{models.TxEarning, models.TxWithdrawal, models.TxDelivery} {
		if !seen[want] {
			t.Errorf("missing transaction of type %q", want)
		}
	}
}

func TestBuildChanges_IdempotentNoOp(t *testing.T) {
	u := testUser()
	adminID := primitive.NewObjectID()

	first := BuildChanges(u, AdminUpdate{Earnings: f64(750)}, adminID, time.Now())
	first.Apply(u)

	// Same values again: nothing changed, nothing appended.
	second := BuildChanges(u, AdminUpdate{Earnings: f64(750)}, adminID, time.Now())
	if !second.Empty() {
		t.Error("repeated identical update should produce an empty change set")
	}
	if len(second.Transactions) != 0 {
		t.Errorf("repeated update appended %d transactions", len(second.Transactions))
	}
}

func TestBuildChanges_UnchangedFieldsSkipped(t *testing.T) {
	u := testUser()
	cs := BuildChanges(u, AdminUpdate{
		Earnings:    f64(500), // equal to stored value
		Withdrawals: f64(200),
	}, primitive.NewObjectID(), time.Now())
	if cs.Earnings != nil {
		t.Error("unchanged earnings must not be set")
	}
	if len(cs.Transactions) != 1 {
		t.Fatalf("expected 1 transaction for the changed field, got %d", len(cs.Transactions))
	}
	if cs.Transactions[0].Type != models.TxWithdrawal {
		t.Errorf("type = %q, want withdrawal", cs.Transactions[0].Type)
	}
}

func TestBuildChanges_CommissionRateHasNoTransaction(t *testing.T) {
	u := testUser()
	cs := BuildChanges(u, AdminUpdate{CommissionRate: f64(25)}, primitive.NewObjectID(), time.Now())
	if cs.Empty() {
		t.Fatal("rate change should produce a change set")
	}
	if len(cs.Transactions) != 0 {
		t.Errorf("rate change appended %d transactions, want 0", len(cs.Transactions))
	}
	cs.Apply(u)
	if u.EffectiveCommissionRate() != 25 {
		t.Errorf("rate after apply = %v, want 25", u.EffectiveCommissionRate())
	}
}

func TestBuildChanges_ExplicitZeroCommissionRate(t *testing.T) {
	u := testUser() // stored rate 20
	cs := BuildChanges(u, AdminUpdate{CommissionRate: f64(0)}, primitive.NewObjectID(), time.Now())
	if cs.Empty() {
		t.Fatal("setting the rate to 0 is a change")
	}
	cs.Apply(u)
	// 0 is a valid rate, not "unset": the default must not reappear.
	if got := u.EffectiveCommissionRate(); got != 0 {
		t.Errorf("effective rate after explicit 0 = %v, want 0", got)
	}
	if got := NetEarnings(u.Earnings, u.EffectiveCommissionRate()); got != 500 {
		t.Errorf("net earnings at 0%% commission = %v, want 500", got)
	}
}

func TestBuildChanges_UnsetRateToDefaultIsNoOp(t *testing.T) {
	u := testUser()
	u.CommissionRate = nil // legacy document without a stored rate
	cs := BuildChanges(u, AdminUpdate{CommissionRate: f64(models.DefaultCommissionRate)}, primitive.NewObjectID(), time.Now())
	if !cs.Empty() {
		t.Error("writing the default over an unset rate should be a no-op")
	}
}

func TestFormatTRY(t *testing.T) {
	if got := FormatTRY(500); got != "500.00 ₺" {
		t.Errorf("FormatTRY(500) = %q", got)
	}
	if got := FormatTRY(750.5); got != "750.50 ₺" {
		t.Errorf("FormatTRY(750.5) = %q", got)
	}
}
