package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kururay/backend/internal/model"
)

type pgHistoryRepository struct {
	db Querier
}

// NewPgHistoryRepository returns a PostgreSQL-backed HistoryRepository.
func NewPgHistoryRepository(db Querier) HistoryRepository {
	return &pgHistoryRepository{db: db}
}

func (r *pgHistoryRepository) Create(ctx context.Context, h *model.HistoricalProject) error {
	volunteers, err := json.Marshal(h.Volunteers)
	if err != nil {
		return fmt.Errorf("marshal volunteers snapshot: %w", err)
	}
	evidence, err := json.Marshal(h.Evidence)
	if err != nil {
		return fmt.Errorf("marshal evidence snapshot: %w", err)
	}
	attendance, err := json.Marshal(h.Attendance)
	if err != nil {
		return fmt.Errorf("marshal attendance snapshot: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO historial_voluntariados
		 (id_voluntariado, nombre, presupuesto_ejecutado, logros, voluntarios, evidencias, asistencias)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7::jsonb)
		 RETURNING id, fecha_cierre`,
		h.ProjectID, h.ProjectName, h.ExecutedBudget, h.Achievements,
		string(volunteers), string(evidence), string(attendance),
	).Scan(&h.ID, &h.ClosedAt)
	return mapErr(err)
}

func (r *pgHistoryRepository) GetByProjectID(ctx context.Context, projectID int64) (*model.HistoricalProject, error) {
	var h model.HistoricalProject
	var volunteers, evidence, attendance []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, id_voluntariado, nombre, fecha_cierre, presupuesto_ejecutado, logros,
		        voluntarios, evidencias, asistencias
		 FROM historial_voluntariados WHERE id_voluntariado = $1`,
		projectID,
	).Scan(&h.ID, &h.ProjectID, &h.ProjectName, &h.ClosedAt, &h.ExecutedBudget, &h.Achievements,
		&volunteers, &evidence, &attendance)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := json.Unmarshal(volunteers, &h.Volunteers); err != nil {
		return nil, fmt.Errorf("unmarshal volunteers snapshot: %w", err)
	}
	if err := json.Unmarshal(evidence, &h.Evidence); err != nil {
		return nil, fmt.Errorf("unmarshal evidence snapshot: %w", err)
	}
	if err := json.Unmarshal(attendance, &h.Attendance); err != nil {
		return nil, fmt.Errorf("unmarshal attendance snapshot: %w", err)
	}
	return &h, nil
}
