package finance

import (
	"testing"
	"time"

	"github.com/kuryepanel/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func entry(entryType string, amount float64) models.AccountingEntry {
	return models.AccountingEntry{
		ID:     primitive.NewObjectID(),
		Type:   entryType,
		Amount: amount,
		Date:   time.Now(),
	}
}

func TestSummarize(t *testing.T) {
	entries := []models.AccountingEntry{
		entry(models.EntryOfficeIncome, 100),
		entry(models.EntryOfficeExpense, 40),
		entry(models.EntrySystemRevenue, 50),
		entry(models.EntrySystemExpense, 10),
	}
	got := Summarize(entries)
	if got.OfficeIncome != 100 || got.OfficeExpense != 40 {
		t.Errorf("office sums = %v/%v, want 100/40", got.OfficeIncome, got.OfficeExpense)
	}
	if got.OfficeNet != 60 {
		t.Errorf("office_net = %v, want 60", got.OfficeNet)
	}
	if got.SystemNet != 40 {
		t.Errorf("system_net = %v, want 40", got.SystemNet)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	if got.OfficeNet != 0 || got.SystemNet != 0 {
		t.Errorf("empty ledger nets = %v/%v, want 0/0", got.OfficeNet, got.SystemNet)
	}
}

func TestSummarize_MultipleEntriesPerType(t *testing.T) {
	entries := []models.AccountingEntry{
		entry(models.EntryOfficeIncome, 10.10),
		entry(models.EntryOfficeIncome, 20.20),
		entry(models.EntryOfficeExpense, 0.30),
	}
	got := Summarize(entries)
	if got.OfficeIncome != 30.30 {
		t.Errorf("office_income = %v, want 30.30", got.OfficeIncome)
	}
	if got.OfficeNet != 30 {
		t.Errorf("office_net = %v, want 30", got.OfficeNet)
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

	daily, err := PeriodStart("daily", now)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if daily != time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("daily start = %v", daily)
	}

	weekly, err := PeriodStart("weekly", now)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if weekly != now.AddDate(0, 0, -7) {
		t.Errorf("weekly start = %v", weekly)
	}

	monthly, err := PeriodStart("monthly", now)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if monthly != now.AddDate(0, -1, 0) {
		t.Errorf("monthly start = %v", monthly)
	}

	if _, err := PeriodStart("yearly", now); err == nil {
		t.Error("expected error for unknown period")
	}
}

func TestEarningsSummary(t *testing.T) {
	users := []models.User{
		{ID: primitive.NewObjectID(), Username: "a", Earnings: 100},
		{ID: primitive.NewObjectID(), Username: "b", Earnings: 0},
		{ID: primitive.NewObjectID(), Username: "c", Earnings: 250.50},
	}
	rows, total := EarningsSummary(users)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (zero-earnings users excluded)", len(rows))
	}
	if total != 350.50 {
		t.Errorf("total = %v, want 350.50", total)
	}
}

func TestCommissionTotal(t *testing.T) {
	users := []models.User{
		{Earnings: 1000, CommissionRate: f64(20)},
		{Earnings: 500, CommissionRate: f64(10)},
	}
	// 200 + 50
	if got := CommissionTotal(users); got != 250 {
		t.Errorf("commission total = %v, want 250", got)
	}
}

func TestCommissionTotal_DefaultRate(t *testing.T) {
	// Unset rate falls back to the 20% default; an explicit 0 does not.
	users := []models.User{
		{Earnings: 100},
		{Earnings: 100, CommissionRate: f64(0)},
	}
	if got := CommissionTotal(users); got != 20 {
		t.Errorf("commission total = %v, want 20", got)
	}
}
