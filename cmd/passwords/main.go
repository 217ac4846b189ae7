package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kururay/backend/internal/config"
	"github.com/kururay/backend/internal/logging"
	"github.com/kururay/backend/internal/repository"
	"github.com/kururay/backend/internal/service"
	"github.com/kururay/backend/pkg/auth"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: passwords <command>

Commands:
  volunteers        パスワード未設定の voluntarios に bcrypt(DNI) を設定
  hash <password>   bcrypt ハッシュを出力 (usuarios 登録用)`)
	os.Exit(1)
}

func main() {
	logging.Setup()

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "volunteers":
		seedVolunteers()
	case "hash":
		if len(os.Args) != 3 || os.Args[2] == "" {
			usage()
		}
		hash, err := auth.HashPassword(os.Args[2])
		if err != nil {
			logging.Fatal("hash failed", "error", err)
		}
		fmt.Println(hash)
	default:
		usage()
	}
}

func seedVolunteers() {
	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	n, err := service.SeedVolunteerPasswords(ctx, repository.NewPgVolunteerRepository(pool))
	if err != nil {
		// 途中まで更新済みの件数も出す
		slog.Error("volunteer passwords partially updated", "updated", n, "error", err)
		pool.Close()
		os.Exit(1)
	}
	slog.Info("volunteer passwords updated", "updated", n)
}
