package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kururay/backend/internal/config"
	"github.com/kururay/backend/internal/handler"
	"github.com/kururay/backend/internal/logging"
	"github.com/kururay/backend/internal/repository"
	"github.com/kururay/backend/internal/service"
	"github.com/kururay/backend/internal/storage"
	"github.com/kururay/backend/pkg/auth"
)

func main() {
	logging.Setup()

	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	store := repository.NewPgStore(pool)
	txRunner := repository.NewPgTxRunner(pool)
	userRepo := repository.NewPgUserRepository(pool)
	photoStorage := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadURLPrefix)
	secret := auth.SecretBytes(cfg.JWTSecret)

	services := handler.Services{
		Projects:    service.NewProjectService(store, txRunner),
		Assignments: service.NewAssignmentService(store, txRunner),
		Evidence:    service.NewEvidenceService(store, txRunner, photoStorage),
		Attendance:  service.NewAttendanceService(store, txRunner),
		Auth:        service.NewAuthService(userRepo, secret, cfg.TokenTTL),
	}

	// 認証必要エンドポイント
	wrapAuth := func(next http.Handler) http.Handler {
		if cfg.AuthRequired {
			return auth.RequireAuth(secret)(next)
		}
		return auth.DevAuth(next)
	}
	if !cfg.AuthRequired {
		slog.Warn("AUTH_REQUIRED=false: every request runs as the development administrator")
	}

	loginLimiter := handler.NewRateLimiter(cfg.LoginRateLimit)
	defer loginLimiter.Stop()

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: handler.NewRouter(handler.RouterConfig{
			DB:              userRepo,
			FrontendURL:     cfg.FrontendURL,
			Authenticate:    wrapAuth,
			LoginLimiter:    loginLimiter,
			UploadDir:       cfg.UploadDir,
			UploadURLPrefix: cfg.UploadURLPrefix,
		}, services),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
