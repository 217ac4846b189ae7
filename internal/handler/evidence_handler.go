package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/service"
)

const maxPhotoSize = 5 << 20 // 5 MB

// EvidenceHandler は evidencias の HTTP ハンドラ
type EvidenceHandler struct {
	evidenceService service.EvidenceService
}

// NewEvidenceHandler は EvidenceHandler を生成する
func NewEvidenceHandler(evidenceService service.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{evidenceService: evidenceService}
}

// Create は POST /voluntariados/{id}/evidencias を処理する
func (h *EvidenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Date        string `json:"fecha"`
		Description string `json:"descripcion"`
		Incidents   string `json:"incidencias"`
		Attendees   int    `json:"asistentes"`
		Absentees   int    `json:"ausentes"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate("fecha", req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := &model.Evidence{
		ProjectID:   projectID,
		Date:        date,
		Description: req.Description,
		Incidents:   req.Incidents,
		Attendees:   req.Attendees,
		Absentees:   req.Absentees,
	}
	if err := h.evidenceService.Create(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// List は GET /voluntariados/{id}/evidencias を処理する
func (h *EvidenceHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.evidenceService.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []model.Evidence{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Delete は DELETE /evidencias/{id} を処理する
func (h *EvidenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.evidenceService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Evidencia eliminada correctamente")
}

// UploadPhoto は POST /evidencias/{id}/foto を処理する (multipart, フィールド名 "foto")
func (h *EvidenceHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	// multipart のヘッダ分の余裕を持たせる
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+(512<<10))
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusBadRequest, "foto: el archivo supera 5 MB")
			return
		}
		writeMessage(w, http.StatusBadRequest, "foto: formulario inválido")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("foto")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "foto: es obligatoria")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoSize {
		writeMessage(w, http.StatusBadRequest, "foto: el archivo supera 5 MB")
		return
	}

	ct := header.Header.Get("Content-Type")
	e, err := h.evidenceService.AttachPhoto(r.Context(), id, file, ct)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "evidence photo uploaded", "evidence_id", id, "size", header.Size)
	writeJSON(w, http.StatusOK, e)
}
