package finance

import (
	"fmt"
	"time"

	"github.com/kuryepanel/backend/models"
	"github.com/shopspring/decimal"
)

// Totals are per-type sums over a set of ledger entries, computed in
// memory at read time.
type Totals struct {
	OfficeIncome  float64 `json:"office_income"`
	OfficeExpense float64 `json:"office_expense"`
	SystemRevenue float64 `json:"system_revenue"`
	SystemExpense float64 `json:"system_expense"`
	OfficeNet     float64 `json:"office_net"`
	SystemNet     float64 `json:"system_net"`
}

// Summarize sums entry amounts per type and derives the net figures.
func Summarize(entries []models.AccountingEntry) Totals {
	sums := map[string]decimal.Decimal{}
	for _, e := range entries {
		sums[e.Type] = sums[e.Type].Add(decimal.NewFromFloat(e.Amount))
	}
	toF := func(d decimal.Decimal) float64 {
		f, _ := d.Float64()
		return f
	}
	t := Totals{
		OfficeIncome:  toF(sums[models.EntryOfficeIncome]),
		OfficeExpense: toF(sums[models.EntryOfficeExpense]),
		SystemRevenue: toF(sums[models.EntrySystemRevenue]),
		SystemExpense: toF(sums[models.EntrySystemExpense]),
	}
	t.OfficeNet = toF(sums[models.EntryOfficeIncome].Sub(sums[models.EntryOfficeExpense]))
	t.SystemNet = toF(sums[models.EntrySystemRevenue].Sub(sums[models.EntrySystemExpense]))
	return t
}

// PeriodStart returns the start of the daily/weekly/monthly report window
// ending at now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "daily":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case "weekly":
		return now.AddDate(0, 0, -7), nil
	case "monthly":
		return now.AddDate(0, -1, 0), nil
	}
	return time.Time{}, fmt.Errorf("unknown report period %q", period)
}

// UserEarning is one row of the per-user earnings summary.
type UserEarning struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Earnings float64 `json:"earnings"`
}

// EarningsSummary lists users with earnings > 0 and their summed total.
func EarningsSummary(users []models.User) ([]UserEarning, float64) {
	rows := make([]UserEarning, 0)
	total := decimal.Zero
	for _, u := range users {
		if u.Earnings <= 0 {
			continue
		}
		rows = append(rows, UserEarning{
			UserID:   u.ID.Hex(),
			Username: u.Username,
			Earnings: u.Earnings,
		})
		total = total.Add(decimal.NewFromFloat(u.Earnings))
	}
	f, _ := total.Float64()
	return rows, f
}

// CommissionTotal sums earnings * rate/100 over all users, using each
// user's effective commission rate.
func CommissionTotal(users []models.User) float64 {
	total := decimal.Zero
	for _, u := range users {
		e := decimal.NewFromFloat(u.Earnings)
		rate := decimal.NewFromFloat(u.EffectiveCommissionRate()).Div(decimal.NewFromInt(100))
		total = total.Add(e.Mul(rate))
	}
	f, _ := total.Round(2).Float64()
	return f
}
