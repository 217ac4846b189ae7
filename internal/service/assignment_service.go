package service

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// AssignmentService manages which volunteers work on which voluntariado.
// A volunteer holds at most one assignment at a time.
type AssignmentService interface {
	Assign(ctx context.Context, projectID, volunteerID int64) (*model.Assignment, error)
	Unassign(ctx context.Context, projectID, volunteerID int64) error
	ListAssigned(ctx context.Context, projectID int64) ([]model.AssignedVolunteer, error)
	ListUnassigned(ctx context.Context) ([]model.Volunteer, error)
}
