package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

type pgEvidenceRepository struct {
	db Querier
}

// NewPgEvidenceRepository returns a PostgreSQL-backed EvidenceRepository.
func NewPgEvidenceRepository(db Querier) EvidenceRepository {
	return &pgEvidenceRepository{db: db}
}

const evidenceSelectCols = `id, id_voluntariado, fecha, descripcion, COALESCE(incidencias, ''),
	asistentes, ausentes, porcentaje_participacion, COALESCE(foto_url, ''), created_at`

func scanEvidence(scan func(...any) error) (*model.Evidence, error) {
	e := &model.Evidence{}
	err := scan(
		&e.ID, &e.ProjectID, &e.Date, &e.Description, &e.Incidents,
		&e.Attendees, &e.Absentees, &e.ParticipationPercentage, &e.PhotoURL, &e.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return e, nil
}

func (r *pgEvidenceRepository) Create(ctx context.Context, e *model.Evidence) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO evidencias
		 (id_voluntariado, fecha, descripcion, incidencias, asistentes, ausentes, porcentaje_participacion)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		 RETURNING id, created_at`,
		e.ProjectID, e.Date, e.Description, e.Incidents,
		e.Attendees, e.Absentees, e.ParticipationPercentage,
	).Scan(&e.ID, &e.CreatedAt)
	return mapErr(err)
}

func (r *pgEvidenceRepository) GetByID(ctx context.Context, id int64) (*model.Evidence, error) {
	row := r.db.QueryRow(ctx, `SELECT `+evidenceSelectCols+` FROM evidencias WHERE id = $1`, id)
	return scanEvidence(row.Scan)
}

func (r *pgEvidenceRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Evidence, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+evidenceSelectCols+`
		 FROM evidencias
		 WHERE id_voluntariado = $1
		 ORDER BY fecha DESC, id DESC`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Evidence{}
	for rows.Next() {
		e, err := scanEvidence(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func (r *pgEvidenceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM evidencias WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgEvidenceRepository) UpdatePhotoURL(ctx context.Context, id int64, url string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE evidencias SET foto_url = NULLIF($1, '') WHERE id = $2`, url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
