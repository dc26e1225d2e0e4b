package handlers

import (
	"encoding/json"
	"mime/multipart"
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

type VerificationHandler struct {
	DB       *store.DB
	Storage  *service.StorageService
	Mailer   *service.Mailer
	MaxBytes int64
}

func idImageContentType(header *multipart.FileHeader) (string, bool) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	partType := header.Header.Get("Content-Type")
	switch {
	case ext == ".jpg" || ext == ".jpeg" || strings.HasPrefix(partType, "image/jpeg"):
		return "image/jpeg", true
	case ext == ".png" || strings.HasPrefix(partType, "image/png"):
		return "image/png", true
	}
	return "", false
}

// Submit accepts ID front/back images and moves the user to submitted.
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "upload not configured (missing S3)")
		return
	}
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil || user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if user.Verification.Status == models.VerificationApproved {
		writeError(w, http.StatusBadRequest, "account already verified")
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	upload := func(field string) (string, bool) {
		file, header, err := r.FormFile(field)
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing "+field+" image")
			return "", false
		}
		defer file.Close()
		contentType, allowed := idImageContentType(header)
		if !allowed {
			writeError(w, http.StatusBadRequest, "only jpeg and png images are allowed")
			return "", false
		}
		key, err := h.Storage.Upload(r.Context(), service.VerificationPrefix, header.Filename, file, contentType)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to upload document")
			return "", false
		}
		return key, true
	}

	frontKey, ok := upload("idFront")
	if !ok {
		return
	}
	backKey, ok := upload("idBack")
	if !ok {
		return
	}

	now := time.Now()
	if err := h.DB.SubmitVerification(r.Context(), userID, frontKey, backKey, now); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to submit verification")
		return
	}
	zap.L().Info("verification submitted", zap.String("user", user.Username))
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      models.VerificationSubmitted,
		"submittedAt": now.Format(time.RFC3339),
	})
}

type VerificationReviewRequest struct {
	Approved        bool   `json:"approved"`
	RejectionReason string `json:"rejectionReason"`
}

// Review records an admin approve/reject decision and notifies the user
// by mail (best-effort).
func (h *VerificationHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req VerificationReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.DB.UserByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to review verification")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Kullanıcı bulunamadı")
		return
	}
	if user.Verification.Status != models.VerificationSubmitted {
		writeError(w, http.StatusBadRequest, "no submitted verification to review")
		return
	}
	if err := h.DB.ReviewVerification(r.Context(), id, req.Approved, req.RejectionReason, time.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to review verification")
		return
	}
	if req.Approved {
		go h.Mailer.SendVerificationApproved(user.Email, user.Username)
	} else {
		go h.Mailer.SendVerificationRejected(user.Email, user.Username, req.RejectionReason)
	}
	user, _ = h.DB.UserByID(r.Context(), id)
	writeJSON(w, http.StatusOK, user)
}

// DocumentURLs returns presigned URLs for a user's ID images so an admin
// can review them.
func (h *VerificationHandler) DocumentURLs(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.DB.UserByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load documents")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Kullanıcı bulunamadı")
		return
	}
	if user.Verification.IDFrontKey == "" || user.Verification.IDBackKey == "" {
		writeError(w, http.StatusNotFound, "no documents submitted")
		return
	}
	if h.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}
	front, err := h.Storage.PresignedGetURL(r.Context(), user.Verification.IDFrontKey, 15*time.Minute)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create document URL")
		return
	}
	back, err := h.Storage.PresignedGetURL(r.Context(), user.Verification.IDBackKey, 15*time.Minute)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create document URL")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"idFront": front, "idBack": back})
}
