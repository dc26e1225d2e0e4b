package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kuryepanel/backend/middleware"
	"github.com/kuryepanel/backend/models"
	"github.com/kuryepanel/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnnouncementsHandler struct {
	DB *store.DB
}

type AnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *AnnouncementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "title and body required")
		return
	}
	a := &models.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	id, err := h.DB.InsertAnnouncement(r.Context(), a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save announcement")
		return
	}
	a.ID = id
	writeJSON(w, http.StatusCreated, a)
}

func (h *AnnouncementsHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.DB.ListAnnouncements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list announcements")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AnnouncementsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid announcement id")
		return
	}
	var req struct {
		Title *string `json:"title"`
		Body  *string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	a, err := h.DB.AnnouncementByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update announcement")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	if err := h.DB.UpdateAnnouncement(r.Context(), id, req.Title, req.Body); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update announcement")
		return
	}
	a, _ = h.DB.AnnouncementByID(r.Context(), id)
	writeJSON(w, http.StatusOK, a)
}

func (h *AnnouncementsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid announcement id")
		return
	}
	a, err := h.DB.AnnouncementByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete announcement")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	if err := h.DB.DeleteAnnouncement(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete announcement")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
