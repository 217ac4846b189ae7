package service

import (
	"context"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/pkg/auth"
)

// ProjectService は voluntariado のライフサイクルに関するビジネスロジックのインターフェース
type ProjectService interface {
	List(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	// Create stores the project as Pendiente and not visible, owned by actor.
	Create(ctx context.Context, actor auth.Actor, project *model.Project) error
	// Update overwrites the content fields of project.ID. Status and
	// visibility are never touched.
	Update(ctx context.Context, actor auth.Actor, project *model.Project) (*model.Project, error)
	StatusHistory(ctx context.Context, id int64) ([]*model.StatusEvent, error)

	SetVisibility(ctx context.Context, id int64, visible bool) (*model.Project, error)
	Approve(ctx context.Context, id int64) (*model.StatusEvent, error)
	SetStatus(ctx context.Context, id int64, label string) (*model.StatusEvent, error)

	// Close archives an Activo project and releases its volunteers.
	Close(ctx context.Context, id int64, closure model.Closure) (*model.HistoricalProject, error)
	History(ctx context.Context, id int64) (*model.HistoricalProject, error)
}
