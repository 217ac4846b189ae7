package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// ProjectRepository persists voluntariados and their status history.
type ProjectRepository interface {
	List(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	// GetForUpdate reads the project and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	SetVisibility(ctx context.Context, id int64, visible bool) error
	// RecordClosure stores the executed budget and hides the project.
	RecordClosure(ctx context.Context, id int64, executedBudget float64) error
	AppendStatus(ctx context.Context, id int64, status model.ProjectStatus) (*model.StatusEvent, error)
	ListStatusEvents(ctx context.Context, id int64) ([]*model.StatusEvent, error)
}
