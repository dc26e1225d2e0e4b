package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kuryepanel/backend/middleware"
	"github.com/kuryepanel/backend/models"
	"github.com/kuryepanel/backend/service"
	"github.com/kuryepanel/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type DeliveryHandler struct {
	DB       *store.DB
	Storage  *service.StorageService
	MaxBytes int64
}

func receiptContentType(ext, partType string) (string, bool) {
	switch {
	case ext == ".jpg" || ext == ".jpeg" || strings.HasPrefix(partType, "image/jpeg"):
		return "image/jpeg", true
	case ext == ".png" || strings.HasPrefix(partType, "image/png"):
		return "image/png", true
	case ext == ".pdf" || strings.HasPrefix(partType, "application/pdf"):
		return "application/pdf", true
	}
	return "", false
}

// Create accepts a multipart receipt upload, stores it, records the
// delivery as pending and increments the owner's deliveryCount.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "upload not configured (missing S3)")
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing receipt file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(header.Filename)))
	contentType, allowed := receiptContentType(ext, header.Header.Get("Content-Type"))
	if !allowed {
		writeError(w, http.StatusBadRequest, "only jpeg, png and pdf receipts are allowed")
		return
	}

	key, err := h.Storage.Upload(r.Context(), service.ReceiptPrefix, header.Filename, file, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to upload receipt")
		return
	}

	d := &models.Delivery{
		UserID:       userID,
		ReceiptKey:   key,
		OriginalName: header.Filename,
		Status:       models.DeliveryPending,
		CreatedAt:    time.Now(),
	}
	id, err := h.DB.InsertDelivery(r.Context(), d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save delivery")
		return
	}
	d.ID = id

	if err := h.DB.IncDeliveryCount(r.Context(), userID, 1); err != nil {
		zap.L().Warn("delivery count increment failed", zap.String("user", userID.Hex()), zap.Error(err))
	}
	writeJSON(w, http.StatusCreated, d)
}

// ListOwn returns the caller's deliveries, newest first.
func (h *DeliveryHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	out, err := h.DB.DeliveriesByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deliveries")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListAll returns every delivery, with an optional ?status= filter
// (admin/manager view).
func (h *DeliveryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !deliveryStatusValid(status) {
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	out, err := h.DB.AllDeliveries(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deliveries")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ReceiptURL returns a short-lived presigned URL for the receipt. Owners
// can view their own; admins and managers can view any.
func (h *DeliveryHandler) ReceiptURL(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid delivery id")
		return
	}
	d, err := h.DB.DeliveryByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load delivery")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "delivery not found")
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	role, _ := middleware.RoleFromContext(r.Context())
	if d.UserID != userID && role != models.RoleAdmin && role != models.RoleManager {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if h.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}
	url, err := h.Storage.PresignedGetURL(r.Context(), d.ReceiptKey, 15*time.Minute)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create receipt URL")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type DeliveryStatusRequest struct {
	Status          string `json:"status"`
	AdminComment    string `json:"adminComment"`
	RejectionReason string `json:"rejectionReason"`
}

func deliveryStatusValid(s string) bool {
	for _, v := range models.ValidDeliveryStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// UpdateStatus sets a delivery's status (admin/manager). Any state is
// reachable from any other; the original enforces no transition guard.
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid delivery id")
		return
	}
	var req DeliveryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !deliveryStatusValid(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status; use pending, approved or rejected")
		return
	}
	d, err := h.DB.DeliveryByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load delivery")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "delivery not found")
		return
	}
	if err := h.DB.UpdateDeliveryStatus(r.Context(), id, req.Status, req.AdminComment, req.RejectionReason, time.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update delivery")
		return
	}
	d, _ = h.DB.DeliveryByID(r.Context(), id)
	writeJSON(w, http.StatusOK, d)
}

// Delete removes one of the caller's own deliveries. Only pending
// deliveries can be removed; the counter is decremented and the stored
// receipt cleaned up.
func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid delivery id")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	d, err := h.DB.DeliveryByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load delivery")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "delivery not found")
		return
	}
	if d.UserID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if !d.Deletable() {
		writeError(w, http.StatusBadRequest, "only pending deliveries can be deleted")
		return
	}
	receiptKey, err := h.DB.DeleteDelivery(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete delivery")
		return
	}
	if err := h.DB.IncDeliveryCount(r.Context(), userID, -1); err != nil {
		zap.L().Warn("delivery count decrement failed", zap.String("user", userID.Hex()), zap.Error(err))
	}
	if h.Storage != nil && receiptKey != "" {
		if err := h.Storage.Delete(r.Context(), receiptKey); err != nil {
			zap.L().Warn("receipt cleanup failed", zap.String("key", receiptKey), zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
