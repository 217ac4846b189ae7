package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// AttendanceRepository persists asistencias and their estado_asistencia entries.
type AttendanceRepository interface {
	// CreateSession inserts the session and all of its entries. Run it inside
	// a transaction so a failing entry discards the session.
	CreateSession(ctx context.Context, s *model.AttendanceSession) error
	ListByProject(ctx context.Context, projectID int64) ([]model.AttendanceSession, error)
}
