package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// EvidenceRepository persists evidencias.
type EvidenceRepository interface {
	Create(ctx context.Context, e *model.Evidence) error
	GetByID(ctx context.Context, id int64) (*model.Evidence, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Evidence, error)
	Delete(ctx context.Context, id int64) error
	UpdatePhotoURL(ctx context.Context, id int64, url string) error
}
