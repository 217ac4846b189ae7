package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kururay/backend/internal/repository"
	"github.com/kururay/backend/internal/service"
)

// maxJSONBody は JSON リクエストボディの上限
const maxJSONBody = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError はサービス層のエラーを HTTP ステータスに変換する。
// 想定外のエラーは 500 とし、詳細はログにのみ残す。
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *service.ValidationError
		nf *service.NotFoundError
		ce *service.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nf):
		writeMessage(w, http.StatusNotFound, nf.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Recurso no encontrado")
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &ce):
		writeMessage(w, http.StatusConflict, ce.Error())
	case errors.Is(err, repository.ErrDuplicate):
		writeMessage(w, http.StatusConflict, "El registro ya existe")
	case errors.Is(err, repository.ErrReference):
		writeMessage(w, http.StatusConflict, "El registro relacionado no existe")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeMessage(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}

// decodeJSON は本文を v に読み込む。失敗時は ValidationError を返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			return &service.ValidationError{Field: ute.Field, Message: "tipo inválido"}
		}
		return &service.ValidationError{Message: "JSON inválido"}
	}
	return nil
}

// pathID は パスパラメータを正の整数として読む
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Field: name, Message: "identificador inválido"}
	}
	return id, nil
}

// parseDate は "YYYY-MM-DD" または RFC3339 の文字列をパースする。
// 空文字はゼロ値を返し、必須チェックはサービス層で行う。
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, &service.ValidationError{Field: field, Message: fmt.Sprintf("fecha inválida %q", s)}
}

// parseNumber は JSON の数値と数値文字列の両方を受け付ける
func parseNumber(field string, raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, &service.ValidationError{Field: field, Message: "es obligatorio"}
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, nil
		}
	}
	return 0, &service.ValidationError{Field: field, Message: "debe ser un número"}
}
