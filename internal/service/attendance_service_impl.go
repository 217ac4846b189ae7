package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/repository"
)

type attendanceServiceImpl struct {
	store *repository.Store
	tx    repository.TxRunner
}

// NewAttendanceService creates an AttendanceService backed by store.
func NewAttendanceService(store *repository.Store, tx repository.TxRunner) AttendanceService {
	return &attendanceServiceImpl{store: store, tx: tx}
}

// CreateSession stores the session only if every entry names a volunteer
// currently assigned to the project.
func (s *attendanceServiceImpl) CreateSession(ctx context.Context, session *model.AttendanceSession) error {
	session.Name = strings.TrimSpace(session.Name)
	if session.Name == "" {
		return invalid("nombre", "es obligatorio")
	}
	if session.Date.IsZero() {
		return invalid("fecha", "es obligatoria")
	}
	if len(session.Entries) == 0 {
		return invalid("registros", "debe incluir al menos un voluntario")
	}
	seen := make(map[int64]bool, len(session.Entries))
	for _, e := range session.Entries {
		if e.VolunteerID <= 0 {
			return invalid("registros", "id_voluntario es obligatorio")
		}
		if seen[e.VolunteerID] {
			return invalid("registros", fmt.Sprintf("voluntario %d repetido", e.VolunteerID))
		}
		seen[e.VolunteerID] = true
	}

	return s.tx.InTx(ctx, func(st *repository.Store) error {
		p, err := st.Projects.GetForUpdate(ctx, session.ProjectID)
		if err != nil {
			return notFound(err, resourceProject)
		}
		if p.Status != model.StatusActive {
			return ErrProjectNotActive
		}
		assigned, err := st.Assignments.ListAssigned(ctx, session.ProjectID)
		if err != nil {
			return fmt.Errorf("list assigned: %w", err)
		}
		onProject := make(map[int64]bool, len(assigned))
		for _, v := range assigned {
			onProject[v.ID] = true
		}
		for _, e := range session.Entries {
			if !onProject[e.VolunteerID] {
				return invalid("registros", fmt.Sprintf("el voluntario %d no está asignado al voluntariado", e.VolunteerID))
			}
		}
		if err := st.Attendance.CreateSession(ctx, session); err != nil {
			return fmt.Errorf("create attendance session: %w", err)
		}
		session.Present = session.PresentCount()
		slog.InfoContext(ctx, "attendance recorded",
			"project_id", session.ProjectID,
			"session_id", session.ID,
			"present", session.Present,
			"total", len(session.Entries),
		)
		return nil
	})
}

func (s *attendanceServiceImpl) ListByProject(ctx context.Context, projectID int64) ([]model.AttendanceSession, error) {
	if _, err := s.store.Projects.GetByID(ctx, projectID); err != nil {
		return nil, notFound(err, resourceProject)
	}
	sessions, err := s.store.Attendance.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	countPresent(sessions)
	return sessions, nil
}

// countPresent fills Present on every session.
func countPresent(sessions []model.AttendanceSession) {
	for i := range sessions {
		sessions[i].Present = sessions[i].PresentCount()
	}
}
