package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/repository"
	"github.com/kururay/backend/internal/storage"
)

const resourceEvidence = "Evidencia"

// photoExtensions は受け付ける画像の Content-Type と拡張子
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PhotoExtension returns the file extension for an accepted image type.
func PhotoExtension(contentType string) (string, bool) {
	ext, ok := photoExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

type evidenceServiceImpl struct {
	store   *repository.Store
	tx      repository.TxRunner
	storage storage.Storage
}

// NewEvidenceService creates an EvidenceService. Photos are written to st.
func NewEvidenceService(store *repository.Store, tx repository.TxRunner, st storage.Storage) EvidenceService {
	return &evidenceServiceImpl{store: store, tx: tx, storage: st}
}

func (s *evidenceServiceImpl) Create(ctx context.Context, e *model.Evidence) error {
	e.Description = strings.TrimSpace(e.Description)
	e.Incidents = strings.TrimSpace(e.Incidents)
	switch {
	case e.Date.IsZero():
		return invalid("fecha", "es obligatoria")
	case e.Description == "":
		return invalid("descripcion", "es obligatoria")
	}
	if err := validateCount("asistentes", e.Attendees); err != nil {
		return err
	}
	if err := validateCount("ausentes", e.Absentees); err != nil {
		return err
	}
	e.ParticipationPercentage = model.ParticipationPercentage(e.Attendees, e.Absentees)
	e.PhotoURL = ""

	return s.tx.InTx(ctx, func(st *repository.Store) error {
		p, err := st.Projects.GetForUpdate(ctx, e.ProjectID)
		if err != nil {
			return notFound(err, resourceProject)
		}
		if p.Status != model.StatusActive {
			return ErrProjectNotActive
		}
		if err := st.Evidence.Create(ctx, e); err != nil {
			return fmt.Errorf("create evidence: %w", err)
		}
		return nil
	})
}

func (s *evidenceServiceImpl) ListByProject(ctx context.Context, projectID int64) ([]model.Evidence, error) {
	if _, err := s.store.Projects.GetByID(ctx, projectID); err != nil {
		return nil, notFound(err, resourceProject)
	}
	return s.store.Evidence.ListByProject(ctx, projectID)
}

func (s *evidenceServiceImpl) Delete(ctx context.Context, id int64) error {
	e, err := s.store.Evidence.GetByID(ctx, id)
	if err != nil {
		return notFound(err, resourceEvidence)
	}
	if err := s.store.Evidence.Delete(ctx, id); err != nil {
		return notFound(err, resourceEvidence)
	}
	s.removePhoto(ctx, e.PhotoURL)
	return nil
}

func (s *evidenceServiceImpl) AttachPhoto(ctx context.Context, id int64, data io.Reader, contentType string) (*model.Evidence, error) {
	ext, ok := PhotoExtension(contentType)
	if !ok {
		return nil, invalid("foto", "formato no soportado (JPEG, PNG o WebP)")
	}
	e, err := s.store.Evidence.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, resourceEvidence)
	}

	key := fmt.Sprintf("evidencias/%d/%s%s", e.ProjectID, uuid.NewString(), ext)
	url, err := s.storage.Save(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}
	if err := s.store.Evidence.UpdatePhotoURL(ctx, id, url); err != nil {
		s.removePhoto(ctx, url)
		return nil, notFound(err, resourceEvidence)
	}

	s.removePhoto(ctx, e.PhotoURL)
	e.PhotoURL = url
	return e, nil
}

// removePhoto は古い写真を削除する。失敗はログのみ。
func (s *evidenceServiceImpl) removePhoto(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, ok := s.storage.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to delete evidence photo", "key", key, "error", err)
	}
}
