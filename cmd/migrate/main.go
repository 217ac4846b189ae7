package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kururay/backend/internal/config"
	"github.com/kururay/backend/internal/logging"
	"github.com/kururay/backend/internal/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   未適用の *.up.sql を順番に適用
  reset       全テーブルを DROP し、集約スキーマ (000_consolidated.sql) で再作成
  fresh       全テーブルを DROP し、全マイグレーションを順番に適用`)
	os.Exit(1)
}

func main() {
	logging.Setup()

	cmd := ""
	switch len(os.Args) {
	case 1:
	case 2:
		cmd = os.Args[1]
	default:
		usage()
	}
	if !knownCommand(cmd) {
		usage()
	}

	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}

	m := &migrator{db: pool, dir: migrationDir()}
	err = m.run(ctx, cmd)
	pool.Close()
	if err != nil {
		logging.Fatal("migrate failed", "command", cmd, "error", err)
	}
	slog.Info("migrate finished", "command", cmd)
}

func migrationDir() string {
	if _, err := os.Stat("migrations"); err == nil {
		return "migrations"
	}
	return "../migrations"
}
