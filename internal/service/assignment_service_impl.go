package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/repository"
)

const resourceVolunteer = "Voluntario"

type assignmentServiceImpl struct {
	store *repository.Store
	tx    repository.TxRunner
}

// NewAssignmentService creates an AssignmentService backed by store.
func NewAssignmentService(store *repository.Store, tx repository.TxRunner) AssignmentService {
	return &assignmentServiceImpl{store: store, tx: tx}
}

// Assign locks the project and the volunteer rows before checking the ledger,
// so a concurrent closure or a second assignment waits for this one.
func (s *assignmentServiceImpl) Assign(ctx context.Context, projectID, volunteerID int64) (*model.Assignment, error) {
	if projectID <= 0 {
		return nil, invalid("voluntariadoId", "es obligatorio")
	}
	if volunteerID <= 0 {
		return nil, invalid("voluntarioId", "es obligatorio")
	}

	a := &model.Assignment{ProjectID: projectID, VolunteerID: volunteerID}
	err := s.tx.InTx(ctx, func(st *repository.Store) error {
		p, err := st.Projects.GetForUpdate(ctx, projectID)
		if err != nil {
			return notFound(err, resourceProject)
		}
		if p.Status.Terminal() {
			return ErrAlreadyClosed
		}
		if _, err := st.Volunteers.GetForUpdate(ctx, volunteerID); err != nil {
			return notFound(err, resourceVolunteer)
		}

		existing, err := st.Assignments.FindByVolunteer(ctx, volunteerID)
		switch {
		case err == nil && existing.ProjectID == projectID:
			return ErrAlreadyAssigned
		case err == nil:
			return ErrVolunteerBusy
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("find assignment: %w", err)
		}

		if err := st.Assignments.Create(ctx, a); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyAssigned
			}
			return fmt.Errorf("create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "volunteer assigned", "project_id", projectID, "volunteer_id", volunteerID)
	return a, nil
}

// Unassign は割当を削除する。Close と直列化するため project 行をロックする
func (s *assignmentServiceImpl) Unassign(ctx context.Context, projectID, volunteerID int64) error {
	err := s.tx.InTx(ctx, func(st *repository.Store) error {
		if _, err := st.Projects.GetForUpdate(ctx, projectID); err != nil {
			return notFound(err, resourceProject)
		}
		if err := st.Assignments.Delete(ctx, projectID, volunteerID); err != nil {
			return notFound(err, "Asignación")
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "volunteer unassigned", "project_id", projectID, "volunteer_id", volunteerID)
	return nil
}

func (s *assignmentServiceImpl) ListAssigned(ctx context.Context, projectID int64) ([]model.AssignedVolunteer, error) {
	if _, err := s.store.Projects.GetByID(ctx, projectID); err != nil {
		return nil, notFound(err, resourceProject)
	}
	return s.store.Assignments.ListAssigned(ctx, projectID)
}

func (s *assignmentServiceImpl) ListUnassigned(ctx context.Context) ([]model.Volunteer, error) {
	return s.store.Assignments.ListUnassignedVolunteers(ctx)
}
