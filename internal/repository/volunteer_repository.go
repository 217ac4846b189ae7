package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// VolunteerRepository reads voluntarios and maintains their login passwords.
type VolunteerRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Volunteer, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Volunteer, error)
	// ListWithoutPassword returns volunteers whose password is NULL or blank.
	ListWithoutPassword(ctx context.Context) ([]*model.Volunteer, error)
	SetPassword(ctx context.Context, id int64, hash string) error
}
