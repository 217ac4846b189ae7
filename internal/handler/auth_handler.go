package handler

import (
	"net/http"

	"github.com/kururay/backend/internal/service"
)

// AuthHandler は DNI とパスワードによるログインを処理する
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler は AuthHandler を生成する
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login は POST /login を処理する
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DNI      string `json:"dni"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.authService.Login(r.Context(), req.DNI, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Inicio de sesión exitoso",
		"token":   res.Token,
		"user":    res.User,
	})
}
