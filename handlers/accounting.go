package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kuryepanel/backend/finance"
	"github.com/kuryepanel/backend/middleware"
	"github.com/kuryepanel/backend/models"
	"github.com/kuryepanel/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountingHandler struct {
	DB *store.DB
}

type CreateEntryRequest struct {
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// Create adds a ledger entry.
func (h *AccountingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !models.EntryTypeValid(req.Type) {
		writeError(w, http.StatusBadRequest, "invalid entry type")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}
	e := &models.AccountingEntry{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		AddedBy:     userID,
	}
	id, err := h.DB.InsertEntry(r.Context(), e)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}
	e.ID = id
	writeJSON(w, http.StatusCreated, e)
}

// parseDateRange reads the optional ?from=/?to= RFC3339 filters. A value
// that is present but unparsable is a validation error, not "no filter".
func parseDateRange(r *http.Request) (from, to time.Time, err error) {
	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q", v)
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q", v)
		}
	}
	return from, to, nil
}

// List returns entries with optional ?type=, ?from=, ?to= filters.
func (h *AccountingHandler) List(w http.ResponseWriter, r *http.Request) {
	entryType := r.URL.Query().Get("type")
	if entryType != "" && !models.EntryTypeValid(entryType) {
		writeError(w, http.StatusBadRequest, "invalid entry type")
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date filters must be RFC3339")
		return
	}
	entries, err := h.DB.ListEntries(r.Context(), entryType, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type UpdateEntryRequest struct {
	Amount      *float64   `json:"amount"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
}

func (h *AccountingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Amount != nil && *req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	entry, err := h.DB.EntryByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update entry")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err := h.DB.UpdateEntry(r.Context(), id, req.Amount, req.Description, req.Date); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update entry")
		return
	}
	entry, _ = h.DB.EntryByID(r.Context(), id)
	writeJSON(w, http.StatusOK, entry)
}

func (h *AccountingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	entry, err := h.DB.EntryByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err := h.DB.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type TotalsResponse struct {
	Totals       finance.Totals `json:"totals"`
	UserEarnings struct {
		Users []finance.UserEarning `json:"users"`
		Total float64               `json:"total"`
	} `json:"user_earnings"`
}

// Totals sums matching entries per type, derives the net figures and lists
// per-user earnings. Every request rescans matching rows; nothing is cached.
func (h *AccountingHandler) Totals(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date filters must be RFC3339")
		return
	}
	entries, err := h.DB.ListEntries(r.Context(), "", from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute totals")
		return
	}
	users, err := h.DB.UsersWithEarnings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute totals")
		return
	}
	var resp TotalsResponse
	resp.Totals = finance.Summarize(entries)
	resp.UserEarnings.Users, resp.UserEarnings.Total = finance.EarningsSummary(users)
	writeJSON(w, http.StatusOK, resp)
}

type ReportResponse struct {
	Period          string         `json:"period"`
	From            time.Time      `json:"from"`
	To              time.Time      `json:"to"`
	Totals          finance.Totals `json:"totals"`
	EntryCount      int            `json:"entryCount"`
	CommissionTotal float64        `json:"commissionTotal"`
}

// Report aggregates entries over a daily/weekly/monthly window and adds an
// entry count and the commission total over all users.
func (h *AccountingHandler) Report(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "daily"
	}
	now := time.Now()
	from, err := finance.PeriodStart(period, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period; use daily, weekly or monthly")
		return
	}
	entries, err := h.DB.ListEntries(r.Context(), "", from, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	users, err := h.DB.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{
		Period:          period,
		From:            from,
		To:              now,
		Totals:          finance.Summarize(entries),
		EntryCount:      len(entries),
		CommissionTotal: finance.CommissionTotal(users),
	})
}
