package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// AssignmentRepository is the voluntarios_asignados ledger.
type AssignmentRepository interface {
	// Create inserts the assignment and fills AssignedAt. A unique violation
	// is reported as ErrDuplicate.
	Create(ctx context.Context, a *model.Assignment) error
	// Delete removes one pair; ErrNotFound when the pair does not exist.
	Delete(ctx context.Context, projectID, volunteerID int64) error
	DeleteByProject(ctx context.Context, projectID int64) (int64, error)
	// FindByVolunteer returns the volunteer's current assignment or ErrNotFound.
	FindByVolunteer(ctx context.Context, volunteerID int64) (*model.Assignment, error)
	// ListAssigned returns the project's volunteers, newest assignment first.
	ListAssigned(ctx context.Context, projectID int64) ([]model.AssignedVolunteer, error)
	ListUnassignedVolunteers(ctx context.Context) ([]model.Volunteer, error)
}
