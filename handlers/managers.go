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
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type ManagersHandler struct {
	DB *store.DB
}

type CreateManagerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Nil applies the default rate; an explicit 0 is kept as 0.
	CommissionRate *float64           `json:"commissionRate"`
	Permissions    models.Permissions `json:"permissions"`
}

func permissionsValid(p models.Permissions) bool {
	for module := range p {
		valid := false
		for _, m := range models.ValidModules {
			if m == module {
				valid = true
				break
			}
		}
		if !valid {
			return false
		}
	}
	return true
}

// Create adds a manager account (admin only).
func (h *ManagersHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req CreateManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password required")
		return
	}
	// Manager rate is clamped at the field level, unlike the user rate.
	if req.CommissionRate != nil && (*req.CommissionRate < 0 || *req.CommissionRate > 100) {
		writeError(w, http.StatusBadRequest, "commissionRate must be between 0 and 100")
		return
	}
	if req.Permissions == nil {
		req.Permissions = models.Permissions{}
	}
	if !permissionsValid(req.Permissions) {
		writeError(w, http.StatusBadRequest, "unknown permission module")
		return
	}
	if existing, err := h.DB.ManagerByUsername(r.Context(), req.Username); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create manager")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "username already in use")
		return
	}
	if existing, err := h.DB.ManagerByEmail(r.Context(), req.Email); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create manager")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "email already in use")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create manager")
		return
	}
	rate := models.DefaultCommissionRate
	if req.CommissionRate != nil {
		rate = *req.CommissionRate
	}
	m := &models.Manager{
		Username:       req.Username,
		Email:          req.Email,
		Password:       string(hash),
		CommissionRate: rate,
		Permissions:    req.Permissions,
		CreatedBy:      adminID,
		CreatedAt:      time.Now(),
	}
	id, err := h.DB.CreateManager(r.Context(), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create manager")
		return
	}
	m.ID = id
	writeJSON(w, http.StatusCreated, m)
}

func (h *ManagersHandler) List(w http.ResponseWriter, r *http.Request) {
	managers, err := h.DB.ListManagers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list managers")
		return
	}
	writeJSON(w, http.StatusOK, managers)
}

// UpdatePermissions replaces a manager's CRUD matrix.
func (h *ManagersHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid manager id")
		return
	}
	var perms models.Permissions
	if err := json.NewDecoder(r.Body).Decode(&perms); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !permissionsValid(perms) {
		writeError(w, http.StatusBadRequest, "unknown permission module")
		return
	}
	mgr, err := h.DB.ManagerByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update permissions")
		return
	}
	if mgr == nil {
		writeError(w, http.StatusNotFound, "manager not found")
		return
	}
	if err := h.DB.UpdateManagerPermissions(r.Context(), id, perms); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update permissions")
		return
	}
	mgr.Permissions = perms
	writeJSON(w, http.StatusOK, mgr)
}

func (h *ManagersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid manager id")
		return
	}
	mgr, err := h.DB.ManagerByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete manager")
		return
	}
	if mgr == nil {
		writeError(w, http.StatusNotFound, "manager not found")
		return
	}
	if err := h.DB.DeleteManager(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete manager")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ManagerStats struct {
	Count            int     `json:"count"`
	TotalEarnings    float64 `json:"totalEarnings"`
	TotalWithdrawals float64 `json:"totalWithdrawals"`
}

// Stats sums the financial mirrors over all managers.
func (h *ManagersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	managers, err := h.DB.ListManagers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	earnings, withdrawals := decimal.Zero, decimal.Zero
	for _, m := range managers {
		earnings = earnings.Add(decimal.NewFromFloat(m.TotalEarnings))
		withdrawals = withdrawals.Add(decimal.NewFromFloat(m.TotalWithdrawals))
	}
	e, _ := earnings.Float64()
	wd, _ := withdrawals.Float64()
	writeJSON(w, http.StatusOK, ManagerStats{
		Count:            len(managers),
		TotalEarnings:    e,
		TotalWithdrawals: wd,
	})
}

// RequirePermission gates a manager route on the permission matrix; admins
// always pass. Must run after Auth.
func (h *ManagersHandler) RequirePermission(module, action string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := middleware.RoleFromContext(r.Context())
			if role == models.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			if role != models.RoleManager {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			id, ok := middleware.UserIDFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			mgr, err := h.DB.ManagerByID(r.Context(), id)
			if err != nil || mgr == nil {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			if !mgr.Permissions.Allows(module, action) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
