package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EntryOfficeIncome  = "office_income"
	EntryOfficeExpense = "office_expense"
	EntrySystemRevenue = "system_revenue"
	EntrySystemExpense = "system_expense"
)

var ValidEntryTypes = []string{EntryOfficeIncome, EntryOfficeExpense, EntrySystemRevenue, EntrySystemExpense}

// AccountingEntry is a standalone ledger row. Totals are summed per type at
// read time; no running balance is maintained.
type AccountingEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        string             `bson:"type" json:"type"`
	Amount      float64            `bson:"amount" json:"amount"`
	Description string             `bson:"description" json:"description"`
	Date        time.Time          `bson:"date" json:"date"`
	AddedBy     primitive.ObjectID `bson:"addedBy" json:"addedBy"`
}

func EntryTypeValid(t string) bool {
	for _, v := range ValidEntryTypes {
		if v == t {
			return true
		}
	}
	return false
}
