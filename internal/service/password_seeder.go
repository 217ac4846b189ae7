package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kururay/backend/internal/repository"
	"github.com/kururay/backend/pkg/auth"
)

// SeedVolunteerPasswords sets bcrypt(dni) as the password of every volunteer
// that has none and returns how many were updated.
func SeedVolunteerPasswords(ctx context.Context, repo repository.VolunteerRepository) (int, error) {
	volunteers, err := repo.ListWithoutPassword(ctx)
	if err != nil {
		return 0, fmt.Errorf("list volunteers: %w", err)
	}
	n := 0
	for _, v := range volunteers {
		if v.DNI == "" {
			slog.WarnContext(ctx, "volunteer without dni skipped", "volunteer_id", v.ID)
			continue
		}
		hash, err := auth.HashPassword(v.DNI)
		if err != nil {
			return n, fmt.Errorf("hash password for volunteer %d: %w", v.ID, err)
		}
		if err := repo.SetPassword(ctx, v.ID, hash); err != nil {
			return n, fmt.Errorf("set password for volunteer %d: %w", v.ID, err)
		}
		n++
	}
	return n, nil
}
