package handlers

import (
	"testing"

	"github.com/kuryepanel/backend/models"
)

func TestReversedTransactions(t *testing.T) {
	txs := []models.Transaction{
		{Description: "first"},
		{Description: "second"},
		{Description: "third"},
	}

	out := reversedTransactions(txs)

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	for i, want := range []string{"third", "second", "first"} {
		if out[i].Description != want {
			t.Errorf("out[%d] = %q, want %q", i, out[i].Description, want)
		}
	}
	// The embedded log stays oldest-first.
	for i, want := range []string{"first", "second", "third"} {
		if txs[i].Description != want {
			t.Errorf("txs[%d] = %q, want %q", i, txs[i].Description, want)
		}
	}
}

func TestReversedTransactions_Empty(t *testing.T) {
	if out := reversedTransactions(nil); len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}
