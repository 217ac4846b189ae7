package handler

import (
	"net/http"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/service"
)

// AssignmentHandler は voluntarios_asignados の HTTP ハンドラ
type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

// NewAssignmentHandler は AssignmentHandler を生成する
func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// Assign は POST /voluntariados/voluntarios/asignar を処理する
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID   int64 `json:"id_voluntariado"`
		VolunteerID int64 `json:"id_voluntario"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.assignmentService.Assign(r.Context(), req.ProjectID, req.VolunteerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Voluntario asignado correctamente",
		"asignacion": a,
	})
}

// Unassign は DELETE /voluntariados/{voluntariadoId}/voluntarios/{voluntarioId} を処理する
func (h *AssignmentHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "voluntariadoId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	volunteerID, err := pathID(r, "voluntarioId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.assignmentService.Unassign(r.Context(), projectID, volunteerID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Voluntario desasignado correctamente")
}

// ListAssigned は GET /voluntariados/{id}/voluntarios を処理する
func (h *AssignmentHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	volunteers, err := h.assignmentService.ListAssigned(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if volunteers == nil {
		volunteers = []model.AssignedVolunteer{}
	}
	writeJSON(w, http.StatusOK, volunteers)
}

// ListUnassigned は GET /voluntarios/no-asignados を処理する
func (h *AssignmentHandler) ListUnassigned(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.assignmentService.ListUnassigned(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if volunteers == nil {
		volunteers = []model.Volunteer{}
	}
	writeJSON(w, http.StatusOK, volunteers)
}
