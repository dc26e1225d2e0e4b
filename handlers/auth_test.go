package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kuryepanel/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeAuthStore struct {
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
	created    []*models.User
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{
		byUsername: map[string]*models.User{},
		byEmail:    map[string]*models.User{},
	}
}

func (f *fakeAuthStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	return f.byUsername[username], nil
}

func (f *fakeAuthStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeAuthStore) CreateUser(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	user.ID = id
	f.byUsername[user.Username] = user
	f.byEmail[user.Email] = user
	f.created = append(f.created, user)
	return id, nil
}

func (f *fakeAuthStore) ManagerByUsername(_ context.Context, _ string) (*models.Manager, error) {
	return nil, nil
}

func (f *fakeAuthStore) ManagerByEmail(_ context.Context, _ string) (*models.Manager, error) {
	return nil, nil
}

func registerRequest(body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), req
}

func TestRegister_Success(t *testing.T) {
	db := newFakeAuthStore()
	h := &AuthHandler{DB: db, JWTSecret: "test-secret"}

	rec, req := registerRequest(`{"username":"kurye1","email":"kurye1@example.com","password":"secret1"}`)
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.Role != models.RoleUser {
		t.Errorf("role = %q, want user", resp.Role)
	}
	if len(db.created) != 1 {
		t.Fatalf("created %d users, want 1", len(db.created))
	}
	if db.created[0].Password == "secret1" {
		t.Error("password stored in plaintext")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	db := newFakeAuthStore()
	db.byUsername["kurye1"] = &models.User{Username: "kurye1", Email: "other@example.com"}
	h := &AuthHandler{DB: db, JWTSecret: "test-secret"}

	rec, req := registerRequest(`{"username":"kurye1","email":"new@example.com","password":"secret1"}`)
	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	// The error must name the conflicting field.
	if !strings.Contains(rec.Body.String(), "username") {
		t.Errorf("error does not name the username field: %s", rec.Body.String())
	}
	if len(db.created) != 0 {
		t.Errorf("created %d users, want 0", len(db.created))
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newFakeAuthStore()
	db.byEmail["taken@example.com"] = &models.User{Username: "other", Email: "taken@example.com"}
	h := &AuthHandler{DB: db, JWTSecret: "test-secret"}

	rec, req := registerRequest(`{"username":"kurye2","email":"taken@example.com","password":"secret1"}`)
	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "email") {
		t.Errorf("error does not name the email field: %s", rec.Body.String())
	}
	if len(db.created) != 0 {
		t.Errorf("created %d users, want 0", len(db.created))
	}
}

func TestRegister_MissingFields(t *testing.T) {
	h := &AuthHandler{DB: newFakeAuthStore(), JWTSecret: "test-secret"}
	rec, req := registerRequest(`{"username":"kurye1"}`)
	h.Register(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
