package handler

import (
	"net/http"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/service"
)

// AttendanceHandler は asistencias の HTTP ハンドラ
type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

// NewAttendanceHandler は AttendanceHandler を生成する
func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// Create は POST /voluntariados/{id}/asistencias を処理する
func (h *AttendanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Name    string                  `json:"nombre"`
		Date    string                  `json:"fecha"`
		Entries []model.AttendanceEntry `json:"registros"`
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

	session := &model.AttendanceSession{
		ProjectID: projectID,
		Name:      req.Name,
		Date:      date,
		Entries:   req.Entries,
	}
	if err := h.attendanceService.CreateSession(r.Context(), session); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// List は GET /voluntariados/{id}/asistencias を処理する
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sessions, err := h.attendanceService.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []model.AttendanceSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}
