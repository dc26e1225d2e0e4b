package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kuryepanel/backend/finance"
	"github.com/kuryepanel/backend/middleware"
	"github.com/kuryepanel/backend/models"
	"github.com/kuryepanel/backend/store"
	"github.com/kuryepanel/backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UsersHandler struct {
	DB *store.DB
	// 32-byte AES key for the wallet mnemonic; nil stores it in plaintext.
	MnemonicKey []byte
}

// Me returns the caller's own profile.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type FinancialSummary struct {
	Earnings       float64 `json:"earnings"`
	Withdrawals    float64 `json:"withdrawals"`
	DeliveryCount  int     `json:"deliveryCount"`
	CommissionRate float64 `json:"commissionRate"`
	NetEarnings    float64 `json:"netEarnings"`
}

// FinancialSummaryHandler returns the caller's financial snapshot with net
// earnings computed on the fly.
func (h *UsersHandler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil || user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	rate := user.EffectiveCommissionRate()
	writeJSON(w, http.StatusOK, FinancialSummary{
		Earnings:       user.Earnings,
		Withdrawals:    user.Withdrawals,
		DeliveryCount:  user.DeliveryCount,
		CommissionRate: rate,
		NetEarnings:    finance.NetEarnings(user.Earnings, rate),
	})
}

// Transactions returns the caller's transaction history, newest first.
func (h *UsersHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil || user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, reversedTransactions(user.Transactions))
}

type IBANPaymentRequest struct {
	FullName string `json:"fullName"`
	IBAN     string `json:"iban"`
	BankName string `json:"bankName"`
}

// UpdateIBANPayment sets the caller's bank payout destination.
func (h *UsersHandler) UpdateIBANPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req IBANPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.IBAN = strings.ToUpper(strings.ReplaceAll(req.IBAN, " ", ""))
	if req.FullName == "" || req.IBAN == "" {
		writeError(w, http.StatusBadRequest, "fullName and iban required")
		return
	}
	if !strings.HasPrefix(req.IBAN, "TR") || len(req.IBAN) != 26 {
		writeError(w, http.StatusBadRequest, "invalid IBAN")
		return
	}
	p := &models.IBANPayment{FullName: req.FullName, IBAN: req.IBAN, BankName: req.BankName}
	if err := h.DB.UpdateIBANPayment(r.Context(), userID, p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update payment info")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type CryptoPaymentRequest struct {
	TRXAddress  string `json:"trxAddress"`
	MnemonicKey string `json:"mnemonicKey"`
}

// UpdateCryptoPayment sets the caller's TRX payout destination. The
// mnemonic is encrypted at rest when a key is configured and is never
// echoed back.
func (h *UsersHandler) UpdateCryptoPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req CryptoPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.TRXAddress = strings.TrimSpace(req.TRXAddress)
	if req.TRXAddress == "" {
		writeError(w, http.StatusBadRequest, "trxAddress required")
		return
	}
	mnemonic := strings.TrimSpace(req.MnemonicKey)
	if mnemonic != "" && len(h.MnemonicKey) == 32 {
		enc, err := utils.Encrypt([]byte(mnemonic), h.MnemonicKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update payment info")
			return
		}
		mnemonic = enc
	}
	p := &models.CryptoPayment{TRXAddress: req.TRXAddress, MnemonicKey: mnemonic}
	if err := h.DB.UpdateCryptoPayment(r.Context(), userID, p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update payment info")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"trxAddress": p.TRXAddress})
}

// List returns all users (admin/manager only).
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.DB.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Delete removes a user by ID (admin only). Self-deletion is rejected.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	currentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if currentID == id {
		writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	user, err := h.DB.UserByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err := h.DB.DeleteUser(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
