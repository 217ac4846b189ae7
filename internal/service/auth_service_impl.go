package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kururay/backend/internal/repository"
	"github.com/kururay/backend/pkg/auth"
)

// AuthServiceImpl は AuthService の実装
type AuthServiceImpl struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService は AuthServiceImpl を生成する（DI: UserRepository と署名鍵を注入）
func NewAuthService(userRepo repository.UserRepository, secret []byte, ttl time.Duration) AuthService {
	return &AuthServiceImpl{userRepo: userRepo, secret: secret, ttl: ttl, now: time.Now}
}

// Login は DNI とパスワードを検証し、署名済みトークンを返す
func (s *AuthServiceImpl) Login(ctx context.Context, dni, password string) (*LoginResult, error) {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return nil, invalid("dni", "es obligatorio")
	}
	if password == "" {
		return nil, invalid("password", "es obligatoria")
	}

	u, err := s.userRepo.FindByDNI(ctx, dni)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := auth.CheckPassword(password, u.PasswordHash); err != nil {
		slog.InfoContext(ctx, "login rejected", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	role, ok := auth.ParseRole(u.Role)
	if !ok {
		slog.WarnContext(ctx, "user has unknown role", "user_id", u.ID, "role", u.Role)
		return nil, ErrInvalidCredentials
	}
	token, err := auth.IssueToken(auth.Actor{ID: u.ID, DNI: u.DNI, Role: role}, s.secret, s.ttl, s.now())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	slog.InfoContext(ctx, "user logged in", "user_id", u.ID, "role", u.Role)
	return &LoginResult{Token: token, User: u}, nil
}
