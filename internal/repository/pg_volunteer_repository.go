package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// PgVolunteerRepository は VolunteerRepository の PostgreSQL 実装
type PgVolunteerRepository struct {
	db Querier
}

// NewPgVolunteerRepository は PgVolunteerRepository を生成する
func NewPgVolunteerRepository(db Querier) *PgVolunteerRepository {
	return &PgVolunteerRepository{db: db}
}

const volunteerSelectCols = `vo.id, vo.dni, vo.nombres, vo.apellidos, COALESCE(vo.email, ''), COALESCE(vo.telefono, '')`

func scanVolunteer(scan func(...any) error) (*model.Volunteer, error) {
	var v model.Volunteer
	if err := scan(&v.ID, &v.DNI, &v.FirstName, &v.LastName, &v.Email, &v.Phone); err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

func (r *PgVolunteerRepository) GetByID(ctx context.Context, id int64) (*model.Volunteer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+volunteerSelectCols+` FROM voluntarios vo WHERE vo.id = $1`, id)
	return scanVolunteer(row.Scan)
}

func (r *PgVolunteerRepository) GetForUpdate(ctx context.Context, id int64) (*model.Volunteer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+volunteerSelectCols+` FROM voluntarios vo WHERE vo.id = $1 FOR UPDATE`, id)
	return scanVolunteer(row.Scan)
}

func (r *PgVolunteerRepository) ListWithoutPassword(ctx context.Context) ([]*model.Volunteer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+volunteerSelectCols+` FROM voluntarios vo
		 WHERE vo.password IS NULL OR TRIM(vo.password) = ''
		 ORDER BY vo.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *PgVolunteerRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE voluntarios SET password = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
