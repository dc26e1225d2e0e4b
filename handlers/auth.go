package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kuryepanel/backend/middleware"
	"github.com/kuryepanel/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthStore is the slice of the store the auth handler needs; *store.DB
// satisfies it.
type AuthStore interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	ManagerByUsername(ctx context.Context, username string) (*models.Manager, error)
	ManagerByEmail(ctx context.Context, email string) (*models.Manager, error)
}

type AuthHandler struct {
	DB        AuthStore
	JWTSecret string
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"` // username or email
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register creates a regular user account. Managers and admins are created
// by admins, never through self-service registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
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
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	if existing, err := h.DB.UserByUsername(r.Context(), req.Username); err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "username already in use")
		return
	}
	if existing, err := h.DB.UserByEmail(r.Context(), req.Email); err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "email already in use")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	now := time.Now()
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Password:     string(hash),
		Role:         models.RoleUser,
		Verification: models.Verification{Status: models.VerificationPending},
		Transactions: []models.Transaction{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := h.DB.CreateUser(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	user.ID = id

	token, err := h.createToken(id.Hex(), user.Username, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create token")
		return
	}
	zap.L().Info("user registered", zap.String("username", user.Username))
	writeJSON(w, http.StatusCreated, LoginResponse{Token: token, Username: user.Username, Role: user.Role})
}

// Login authenticates against the users collection first, then managers.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := h.DB.UserByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil && strings.Contains(req.Username, "@") {
		user, err = h.DB.UserByEmail(r.Context(), req.Username)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
	}
	if user != nil {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		token, err := h.createToken(user.ID.Hex(), user.Username, user.Role)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create token")
			return
		}
		writeJSON(w, http.StatusOK, LoginResponse{Token: token, Username: user.Username, Role: user.Role})
		return
	}

	mgr, err := h.DB.ManagerByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if mgr == nil && strings.Contains(req.Username, "@") {
		mgr, err = h.DB.ManagerByEmail(r.Context(), req.Username)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
	}
	if mgr == nil || bcrypt.CompareHashAndPassword([]byte(mgr.Password), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	token, err := h.createToken(mgr.ID.Hex(), mgr.Username, models.RoleManager)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create token")
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Username: mgr.Username, Role: models.RoleManager})
}

func (h *AuthHandler) createToken(userID, username, role string) (string, error) {
	claims := &middleware.Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour * 7)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}
