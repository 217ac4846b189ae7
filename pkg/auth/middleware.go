package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth は認証必須ミドルウェア。Bearer トークンを検証し、Actor を context にセットする
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Token no proporcionado")
				return
			}

			actor, err := VerifyToken(token, secret)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Token inválido")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// DevActor は開発用のダミー Actor（AUTH_REQUIRED=false 時に使用）
var DevActor = Actor{ID: 1, DNI: "00000000", Role: RoleAdmin}

// DevAuth は開発用ミドルウェア。DevActor を context にセットする
func DevAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), DevActor)))
	})
}

// RequireRole rejects callers whose role is not in roles. It must run after
// RequireAuth or DevAuth.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "No autenticado")
				return
			}
			if !actor.HasRole(roles...) {
				writeMessage(w, http.StatusForbidden, "Acceso denegado")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
