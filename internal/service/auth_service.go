package service

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// LoginResult は認証成功時に返す token と利用者
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService は認証に関するビジネスロジックのインターフェース
type AuthService interface {
	Login(ctx context.Context, dni, password string) (*LoginResult, error)
}
