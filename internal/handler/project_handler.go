package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/service"
	"github.com/kururay/backend/pkg/auth"
)

// projectRequest は作成・更新で受け付けるフィールドの許可リスト
type projectRequest struct {
	Name                  string   `json:"nombre"`
	Type                  string   `json:"tipo"`
	StartDate             string   `json:"fecha_inicio"`
	EndDate               string   `json:"fecha_fin"`
	GeneralObjective      string   `json:"objetivo_general"`
	SpecificObjectives    []string `json:"objetivos_especificos"`
	TargetAudience        string   `json:"publico_objetivo"`
	DirectBeneficiaries   *int     `json:"beneficiarios_directos"`
	IndirectBeneficiaries *int     `json:"beneficiarios_indirectos"`
	InitialBudget         *float64 `json:"presupuesto_inicial"`
	Allies                *string  `json:"aliados"`
}

func (req *projectRequest) toModel() (*model.Project, error) {
	start, err := parseDate("fecha_inicio", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("fecha_fin", req.EndDate)
	if err != nil {
		return nil, err
	}
	return &model.Project{
		Name:                  req.Name,
		Type:                  req.Type,
		StartDate:             start,
		EndDate:               end,
		GeneralObjective:      req.GeneralObjective,
		SpecificObjectives:    req.SpecificObjectives,
		TargetAudience:        req.TargetAudience,
		DirectBeneficiaries:   req.DirectBeneficiaries,
		IndirectBeneficiaries: req.IndirectBeneficiaries,
		InitialBudget:         req.InitialBudget,
		Allies:                req.Allies,
	}, nil
}

// ProjectHandler は voluntariado の HTTP ハンドラ
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler は ProjectHandler を生成する
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List は GET /voluntariados を処理する (?estado=Activo&estado_alta=true)
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter model.ProjectFilter
	q := r.URL.Query()
	if s := q.Get("estado"); s != "" {
		st, ok := model.ParseProjectStatus(s)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "estado: estado desconocido")
			return
		}
		filter.Status = &st
	}
	if s := q.Get("estado_alta"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "estado_alta: debe ser true o false")
			return
		}
		filter.Visible = &v
	}

	projects, err := h.projectService.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get は GET /voluntariados/{id} を処理する
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	project, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Create は POST /voluntariados を処理する
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No autenticado")
		return
	}

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	project, err := req.toModel()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.projectService.Create(r.Context(), actor, project); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      project.ID,
		"message": "Voluntariado registrado correctamente",
	})
}

// Update は PUT /voluntariados/{id} を処理する
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No autenticado")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	project, err := req.toModel()
	if err != nil {
		writeError(w, r, err)
		return
	}
	project.ID = id

	updated, err := h.projectService.Update(r.Context(), actor, project)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SetVisibility は PATCH /voluntariados/{id}/estado-alta を処理する
func (h *ProjectHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Visible *bool `json:"estado_alta"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Visible == nil {
		writeMessage(w, http.StatusBadRequest, "estado_alta: debe ser booleano")
		return
	}

	project, err := h.projectService.SetVisibility(r.Context(), id, *req.Visible)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Estado de alta actualizado: " + project.VisibilityLabel(),
		"estado_alta":  project.Visible,
		"voluntariado": project,
	})
}

// Approve は POST /voluntariados/{id}/aprobar を処理する
func (h *ProjectHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ev, err := h.projectService.Approve(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// SetStatus は PATCH /voluntariados/{id}/estado を処理する
func (h *ProjectHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Status string `json:"estado"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ev, err := h.projectService.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// StatusHistory は GET /voluntariados/{id}/estados を処理する
func (h *ProjectHandler) StatusHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	events, err := h.projectService.StatusHistory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if events == nil {
		events = []*model.StatusEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Close は POST /voluntariados/{id}/cerrar を処理する
func (h *ProjectHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		ExecutedBudget json.RawMessage `json:"presupuestoEjecutado"`
		Achievements   string          `json:"logros"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	budget, err := parseNumber("presupuestoEjecutado", req.ExecutedBudget)
	if err != nil {
		writeError(w, r, err)
		return
	}

	archived, err := h.projectService.Close(r.Context(), id, model.Closure{
		ExecutedBudget: budget,
		Achievements:   req.Achievements,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Voluntariado cerrado correctamente",
		"historial": archived,
	})
}

// History は GET /voluntariados/{id}/historial を処理する
func (h *ProjectHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	archived, err := h.projectService.History(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, archived)
}
