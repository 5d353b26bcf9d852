package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"soraifarm/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func TestRegisterUser(t *testing.T) {
	db := setupTestDB(t)

	user, err := RegisterUser(db, "farmer@soraifarm.id", "password123", "Pak Tani")
	if err != nil {
		t.Fatalf("unexpected error on register: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned user id")
	}
	if user.PasswordHash == "password123" {
		t.Fatal("password must not be stored in plaintext")
	}

	_, err = RegisterUser(db, "farmer@soraifarm.id", "password123", "Pak Tani")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	db := setupTestDB(t)

	if _, err := RegisterUser(db, "auth@soraifarm.id", "secret123", "Bu Tani"); err != nil {
		t.Fatalf("failed to register user: %v", err)
	}

	user, err := AuthenticateUser(db, "auth@soraifarm.id", "secret123")
	if err != nil {
		t.Fatalf("unexpected error on authenticate: %v", err)
	}
	if user.FullName != "Bu Tani" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := AuthenticateUser(db, "auth@soraifarm.id", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := AuthenticateUser(db, "nobody@soraifarm.id", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(42)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}

	if _, err := ParseToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestRegisterHandlerValidation(t *testing.T) {
	db := setupTestDB(t)
	handler := RegisterHandler(db)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing fields", `{"email":"a@b.com"}`, http.StatusBadRequest},
		{"bad email", `{"email":"not-an-email","password":"secret123","full_name":"X"}`, http.StatusBadRequest},
		{"dummy email", `{"email":"test@test.com","password":"secret123","full_name":"X"}`, http.StatusBadRequest},
		{"short password", `{"email":"real@soraifarm.id","password":"12345","full_name":"X"}`, http.StatusBadRequest},
		{"ok", `{"email":"real@soraifarm.id","password":"secret123","full_name":"X"}`, http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(tt.body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.want, w.Code)
		}
	}
}

func TestLoginHandlerIssuesToken(t *testing.T) {
	db := setupTestDB(t)
	if _, err := RegisterUser(db, "login@soraifarm.id", "secret123", "X"); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		bytes.NewBufferString(`{"email":"login@soraifarm.id","password":"secret123"}`))
	w := httptest.NewRecorder()
	LoginHandler(db).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Success bool        `json:"success"`
		Token   string      `json:"token"`
		User    models.User `json:"user"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Token == "" {
		t.Fatalf("expected success with token, got %+v", resp)
	}

	claims, err := ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatalf("token user id %d != response user id %d", claims.UserID, resp.User.ID)
	}
}

func TestJWTMiddleware(t *testing.T) {
	protected := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok || id != 9 {
			t.Errorf("expected user id 9 in context, got %d (ok=%v)", id, ok)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, err := IssueToken(9)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
}
