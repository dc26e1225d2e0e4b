package handlers

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/accountings?from=2026-01-01T00:00:00Z&to=2026-02-01T00:00:00Z", nil)
	from, to, err := parseDateRange(r)
	if err != nil {
		t.Fatalf("parseDateRange: %v", err)
	}
	if want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}
	if want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC); !to.Equal(want) {
		t.Errorf("to = %v, want %v", to, want)
	}
}

func TestParseDateRange_NoFilters(t *testing.T) {
	r := httptest.NewRequest("GET", "/accountings", nil)
	from, to, err := parseDateRange(r)
	if err != nil {
		t.Fatalf("parseDateRange: %v", err)
	}
	if !from.IsZero() || !to.IsZero() {
		t.Errorf("expected zero times without filters, got from=%v to=%v", from, to)
	}
}

func TestParseDateRange_Malformed(t *testing.T) {
	for _, query := range []string{"from=yesterday", "to=2026-13-99", "from=2026-01-01"} {
		r := httptest.NewRequest("GET", "/accountings?"+query, nil)
		if _, _, err := parseDateRange(r); err == nil {
			t.Errorf("parseDateRange(%q): expected error", query)
		}
	}
}
