package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

type pgAttendanceRepository struct {
	db Querier
}

// NewPgAttendanceRepository returns a PostgreSQL-backed AttendanceRepository.
func NewPgAttendanceRepository(db Querier) AttendanceRepository {
	return &pgAttendanceRepository{db: db}
}

func (r *pgAttendanceRepository) CreateSession(ctx context.Context, s *model.AttendanceSession) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO asistencias (id_voluntariado, nombre, fecha) VALUES ($1, $2, $3) RETURNING id`,
		s.ProjectID, s.Name, s.Date,
	).Scan(&s.ID)
	if err != nil {
		return mapErr(err)
	}
	for _, e := range s.Entries {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO estado_asistencia (id_asistencia, id_voluntario, presente) VALUES ($1, $2, $3)`,
			s.ID, e.VolunteerID, e.Present,
		); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *pgAttendanceRepository) ListByProject(ctx context.Context, projectID int64) ([]model.AttendanceSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.id_voluntariado, a.nombre, a.fecha, ea.id_voluntario, ea.presente
		 FROM asistencias a
		 LEFT JOIN estado_asistencia ea ON ea.id_asistencia = a.id
		 WHERE a.id_voluntariado = $1
		 ORDER BY a.fecha DESC, a.id DESC, ea.id_voluntario`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []model.AttendanceSession{}
	for rows.Next() {
		var s model.AttendanceSession
		var volunteerID *int64
		var present *bool
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Date, &volunteerID, &present); err != nil {
			return nil, err
		}
		// rows arrive grouped by session
		if n := len(sessions); n == 0 || sessions[n-1].ID != s.ID {
			s.Entries = []model.AttendanceEntry{}
			sessions = append(sessions, s)
		}
		if volunteerID != nil {
			last := &sessions[len(sessions)-1]
			last.Entries = append(last.Entries, model.AttendanceEntry{
				VolunteerID: *volunteerID,
				Present:     present != nil && *present,
			})
		}
	}
	return sessions, rows.Err()
}
