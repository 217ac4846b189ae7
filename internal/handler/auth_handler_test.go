package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/service"
)

// mockAuthService は AuthService のモック
type mockAuthService struct {
	loginFunc func(ctx context.Context, dni, password string) (*service.LoginResult, error)
}

func (m *mockAuthService) Login(ctx context.Context, dni, password string) (*service.LoginResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, dni, password)
	}
	return nil, service.ErrInvalidCredentials
}

func TestAuthHandler_Login(t *testing.T) {
	mock := &mockAuthService{
		loginFunc: func(ctx context.Context, dni, password string) (*service.LoginResult, error) {
			if dni == "44556677" && password == "clave" {
				return &service.LoginResult{Token: "signed", User: &model.User{ID: 5, DNI: dni, Role: "RRHH", PasswordHash: "$2a$secret"}}, nil
			}
			return nil, service.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(mock)

	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(`{"dni":"44556677","password":"clave"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["token"] != "signed" {
		t.Errorf("expected token, got %v", body["token"])
	}
	user, _ := body["user"].(map[string]any)
	if _, leaked := user["PasswordHash"]; leaked {
		t.Error("password hash must not be serialized")
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(`{"dni":"44556677","password":"mal"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Usuario o clave incorrecto" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestAuthHandler_Login_BadBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(`dni=1`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
