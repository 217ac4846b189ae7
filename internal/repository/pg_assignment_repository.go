package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// PgAssignmentRepository は AssignmentRepository の PostgreSQL 実装
type PgAssignmentRepository struct {
	db Querier
}

// NewPgAssignmentRepository は PgAssignmentRepository を生成する
func NewPgAssignmentRepository(db Querier) *PgAssignmentRepository {
	return &PgAssignmentRepository{db: db}
}

func (r *PgAssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO voluntarios_asignados (id_voluntariado, id_voluntario)
		 VALUES ($1, $2)
		 RETURNING fecha_asignacion`,
		a.ProjectID, a.VolunteerID,
	).Scan(&a.AssignedAt)
	return mapErr(err)
}

func (r *PgAssignmentRepository) Delete(ctx context.Context, projectID, volunteerID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM voluntarios_asignados WHERE id_voluntariado = $1 AND id_voluntario = $2`,
		projectID, volunteerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgAssignmentRepository) DeleteByProject(ctx context.Context, projectID int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM voluntarios_asignados WHERE id_voluntariado = $1`, projectID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgAssignmentRepository) FindByVolunteer(ctx context.Context, volunteerID int64) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.QueryRow(ctx,
		`SELECT id_voluntariado, id_voluntario, fecha_asignacion
		 FROM voluntarios_asignados WHERE id_voluntario = $1`,
		volunteerID,
	).Scan(&a.ProjectID, &a.VolunteerID, &a.AssignedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *PgAssignmentRepository) ListAssigned(ctx context.Context, projectID int64) ([]model.AssignedVolunteer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+volunteerSelectCols+`, a.id_voluntariado, a.fecha_asignacion
		 FROM voluntarios_asignados a
		 INNER JOIN voluntarios vo ON vo.id = a.id_voluntario
		 WHERE a.id_voluntariado = $1
		 ORDER BY a.fecha_asignacion DESC, vo.id DESC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.AssignedVolunteer{}
	for rows.Next() {
		var av model.AssignedVolunteer
		if err := rows.Scan(
			&av.ID, &av.DNI, &av.FirstName, &av.LastName, &av.Email, &av.Phone,
			&av.ProjectID, &av.AssignedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, av)
	}
	return list, rows.Err()
}

func (r *PgAssignmentRepository) ListUnassignedVolunteers(ctx context.Context) ([]model.Volunteer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+volunteerSelectCols+`
		 FROM voluntarios vo
		 LEFT JOIN voluntarios_asignados a ON a.id_voluntario = vo.id
		 WHERE a.id_voluntario IS NULL
		 ORDER BY vo.apellidos, vo.nombres, vo.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Volunteer{}
	for rows.Next() {
		v, err := scanVolunteer(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}
