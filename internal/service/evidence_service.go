package service

import (
	"context"
	"io"

	"github.com/kururay/backend/internal/model"
)

// EvidenceService records activities carried out on active projects.
type EvidenceService interface {
	Create(ctx context.Context, e *model.Evidence) error
	ListByProject(ctx context.Context, projectID int64) ([]model.Evidence, error)
	Delete(ctx context.Context, id int64) error
	// AttachPhoto stores the image and replaces any previous photo.
	AttachPhoto(ctx context.Context, id int64, data io.Reader, contentType string) (*model.Evidence, error)
}
