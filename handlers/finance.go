package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kuryepanel/backend/finance"
	"github.com/kuryepanel/backend/middleware"
	"github.com/kuryepanel/backend/models"
	"github.com/kuryepanel/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type FinanceHandler struct {
	DB *store.DB
}

type FinanceUpdateRequest struct {
	Earnings       *float64 `json:"earnings"`
	Withdrawals    *float64 `json:"withdrawals"`
	DeliveryCount  *int     `json:"deliveryCount"`
	CommissionRate *float64 `json:"commissionRate"`
}

type FinanceUpdateResponse struct {
	Message string      `json:"message"`
	User    interface{} `json:"user"`
}

// UpdateUserFinances is the admin financial-update operation. Each field
// that differs from the stored value is set and gets exactly one audit
// transaction; a request that changes nothing is a no-op.
func (h *FinanceHandler) UpdateUserFinances(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req FinanceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DeliveryCount != nil && *req.DeliveryCount < 0 {
		writeError(w, http.StatusBadRequest, "deliveryCount cannot be negative")
		return
	}
	if req.CommissionRate != nil && (*req.CommissionRate < 0 || *req.CommissionRate > 100) {
		writeError(w, http.StatusBadRequest, "commissionRate must be between 0 and 100")
		return
	}

	user, err := h.DB.UserByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update finances")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Kullanıcı bulunamadı")
		return
	}

	cs := finance.BuildChanges(user, finance.AdminUpdate{
		Earnings:       req.Earnings,
		Withdrawals:    req.Withdrawals,
		DeliveryCount:  req.DeliveryCount,
		CommissionRate: req.CommissionRate,
	}, adminID, time.Now())

	if cs.Empty() {
		writeJSON(w, http.StatusOK, FinanceUpdateResponse{Message: "Değişiklik yapılmadı", User: user})
		return
	}

	if err := h.DB.ApplyFinanceUpdate(r.Context(), id, &cs); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update finances")
		return
	}
	cs.Apply(user)
	zap.L().Info("finances updated",
		zap.String("user", user.Username),
		zap.String("admin", middleware.UsernameFromContext(r.Context())),
		zap.Int("transactions", len(cs.Transactions)))
	writeJSON(w, http.StatusOK, FinanceUpdateResponse{Message: "Finansal bilgiler güncellendi", User: user})
}

// UserTransactions returns a target user's transaction history, newest
// first (admin view).
func (h *FinanceHandler) UserTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.DB.UserByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Kullanıcı bulunamadı")
		return
	}
	writeJSON(w, http.StatusOK, reversedTransactions(user.Transactions))
}

// reversedTransactions returns a newest-first copy of an embedded
// transaction log, leaving the original untouched.
func reversedTransactions(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
