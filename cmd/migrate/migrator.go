package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
)

const (
	consolidatedFile = "000_consolidated.sql"
	dropAllFile      = "000_drop_all.sql"
	upSuffix         = ".up.sql"
)

const createSchemaMigrations = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// txBeginner is the part of *pgxpool.Pool the migrator needs.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type migration struct {
	name string
}

// upMigrations lists the *.up.sql files of dir in file-name order.
func upMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var out []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), upSuffix) {
			continue
		}
		out = append(out, migration{name: strings.TrimSuffix(e.Name(), upSuffix)})
	}
	return out, nil
}

func knownCommand(cmd string) bool {
	switch cmd {
	case "", "reset", "fresh":
		return true
	}
	return false
}

// migrator applies the SQL files of dir. Every file runs in its own
// transaction together with its schema_migrations record.
type migrator struct {
	db  txBeginner
	dir string
}

func (m *migrator) run(ctx context.Context, cmd string) error {
	switch cmd {
	case "":
		return m.incremental(ctx)
	case "reset":
		if err := m.dropAll(ctx); err != nil {
			return err
		}
		return m.consolidated(ctx)
	case "fresh":
		if err := m.dropAll(ctx); err != nil {
			return err
		}
		return m.incremental(ctx)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (m *migrator) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, m.db, fn)
}

func (m *migrator) readSQL(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(b), nil
}

// ---------------------------------------------------------------------------
// (default) 差分マイグレーション
// ---------------------------------------------------------------------------
func (m *migrator) incremental(ctx context.Context) error {
	migrations, err := upMigrations(m.dir)
	if err != nil {
		return err
	}

	var done map[string]bool
	err = m.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createSchemaMigrations); err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}
		rows, err := tx.Query(ctx, `SELECT name FROM schema_migrations`)
		if err != nil {
			return fmt.Errorf("list applied migrations: %w", err)
		}
		names, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("list applied migrations: %w", err)
		}
		done = make(map[string]bool, len(names))
		for _, n := range names {
			done[n] = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	applied := 0
	for _, mig := range migrations {
		if done[mig.name] {
			continue
		}
		sql, err := m.readSQL(mig.name + upSuffix)
		if err != nil {
			return err
		}
		// 同時実行された場合は PRIMARY KEY 違反でこちらがロールバックされる
		err = m.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, sql); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, mig.name)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply %s: %w", mig.name, err)
		}
		applied++
		slog.Info("migration applied", "migration", mig.name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
	return nil
}

// ---------------------------------------------------------------------------
// 全テーブル DROP
// ---------------------------------------------------------------------------
func (m *migrator) dropAll(ctx context.Context) error {
	sql, err := m.readSQL(dropAllFile)
	if err != nil {
		return err
	}
	if err := m.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, sql)
		return err
	}); err != nil {
		return fmt.Errorf("drop all: %w", err)
	}
	slog.Info("all tables dropped")
	return nil
}

// ---------------------------------------------------------------------------
// 集約スキーマで再作成し、全マイグレーションを適用済みとして記録
// ---------------------------------------------------------------------------
func (m *migrator) consolidated(ctx context.Context) error {
	sql, err := m.readSQL(consolidatedFile)
	if err != nil {
		return err
	}
	migrations, err := upMigrations(m.dir)
	if err != nil {
		return err
	}

	err = m.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply %s: %w", consolidatedFile, err)
		}
		if _, err := tx.Exec(ctx, createSchemaMigrations); err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}
		for _, mig := range migrations {
			if _, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING`, mig.name,
			); err != nil {
				return fmt.Errorf("record %s: %w", mig.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("consolidated schema applied", "migrations_marked", len(migrations))
	return nil
}
