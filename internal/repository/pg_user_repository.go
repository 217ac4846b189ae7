package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kururay/backend/internal/model"
)

// PgUserRepository は UserRepository の PostgreSQL 実装
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository は PgUserRepository を生成する
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

// Ping は DB 接続を確認する（DB インターフェース実装）
func (r *PgUserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// FindByDNI returns the staff account with the given DNI.
func (r *PgUserRepository) FindByDNI(ctx context.Context, dni string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, dni, nombre, role, password, created_at FROM usuarios WHERE dni = $1`, dni,
	).Scan(&u.ID, &u.DNI, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}
