package service

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// AttendanceService records attendance sessions of active projects.
type AttendanceService interface {
	CreateSession(ctx context.Context, session *model.AttendanceSession) error
	ListByProject(ctx context.Context, projectID int64) ([]model.AttendanceSession, error)
}
