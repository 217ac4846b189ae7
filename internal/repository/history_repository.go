package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// HistoryRepository persists historial_voluntariados archives.
type HistoryRepository interface {
	// Create writes the archive. A second archive for the same project is
	// rejected with ErrDuplicate.
	Create(ctx context.Context, h *model.HistoricalProject) error
	GetByProjectID(ctx context.Context, projectID int64) (*model.HistoricalProject, error)
}
