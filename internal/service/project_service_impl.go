package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/repository"
	"github.com/kururay/backend/pkg/auth"
)

const resourceProject = "Voluntariado"

// ProjectServiceImpl は ProjectService の実装
type ProjectServiceImpl struct {
	store *repository.Store
	tx    repository.TxRunner
}

// NewProjectService は ProjectServiceImpl を生成する（DI: Store と TxRunner を注入）
func NewProjectService(store *repository.Store, tx repository.TxRunner) ProjectService {
	return &ProjectServiceImpl{store: store, tx: tx}
}

// List は voluntariado 一覧を取得する
func (s *ProjectServiceImpl) List(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, invalid("estado", "estado desconocido")
	}
	return s.store.Projects.List(ctx, filter)
}

// GetByID は ID で voluntariado を取得する
func (s *ProjectServiceImpl) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	p, err := s.store.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, resourceProject)
	}
	return p, nil
}

// Create は voluntariado と最初の状態 (Pendiente) を同じトランザクションで作成する
func (s *ProjectServiceImpl) Create(ctx context.Context, actor auth.Actor, project *model.Project) error {
	if err := validateProject(project); err != nil {
		return err
	}
	project.OwnerID = actor.ID
	project.Visible = false
	project.ExecutedBudget = nil

	err := s.tx.InTx(ctx, func(st *repository.Store) error {
		if err := st.Projects.Create(ctx, project); err != nil {
			if errors.Is(err, repository.ErrReference) {
				return invalid("id_usuario", "el usuario autenticado no está registrado")
			}
			return fmt.Errorf("create project: %w", err)
		}
		ev, err := st.Projects.AppendStatus(ctx, project.ID, model.StatusPending)
		if err != nil {
			return fmt.Errorf("append initial status: %w", err)
		}
		project.Status = ev.Status
		return nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "project created", "project_id", project.ID, "owner_id", actor.ID)
	return nil
}

// Update は内容フィールドのみを上書きする。所有者か ADMINISTRADOR のみ。
func (s *ProjectServiceImpl) Update(ctx context.Context, actor auth.Actor, project *model.Project) (*model.Project, error) {
	if err := validateProject(project); err != nil {
		return nil, err
	}

	err := s.tx.InTx(ctx, func(st *repository.Store) error {
		current, err := st.Projects.GetForUpdate(ctx, project.ID)
		if err != nil {
			return notFound(err, resourceProject)
		}
		if current.OwnerID != actor.ID && actor.Role != auth.RoleAdmin {
			return ErrForbidden
		}
		if current.Status.Terminal() {
			return ErrAlreadyClosed
		}
		if err := st.Projects.Update(ctx, project); err != nil {
			return fmt.Errorf("update project %d: %w", project.ID, err)
		}
		// fields Update never writes
		project.OwnerID = current.OwnerID
		project.Visible = current.Visible
		project.Status = current.Status
		project.ExecutedBudget = current.ExecutedBudget
		project.CreatedAt = current.CreatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// StatusHistory は状態履歴を新しい順に返す
func (s *ProjectServiceImpl) StatusHistory(ctx context.Context, id int64) ([]*model.StatusEvent, error) {
	if _, err := s.store.Projects.GetByID(ctx, id); err != nil {
		return nil, notFound(err, resourceProject)
	}
	return s.store.Projects.ListStatusEvents(ctx, id)
}

// SetVisibility は estado_alta を切り替える
func (s *ProjectServiceImpl) SetVisibility(ctx context.Context, id int64, visible bool) (*model.Project, error) {
	var out *model.Project
	err := s.tx.InTx(ctx, func(st *repository.Store) error {
		p, err := st.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, resourceProject)
		}
		if p.Status.Terminal() {
			return ErrAlreadyClosed
		}
		if visible && !p.Status.AllowsVisibility() {
			return ErrVisibilityNotAllowed
		}
		if p.Visible != visible {
			if err := st.Projects.SetVisibility(ctx, id, visible); err != nil {
				return fmt.Errorf("set visibility %d: %w", id, err)
			}
			p.Visible = visible
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Approve は Pendiente → Aprobado の遷移を行う
func (s *ProjectServiceImpl) Approve(ctx context.Context, id int64) (*model.StatusEvent, error) {
	return s.transition(ctx, id, model.StatusApproved)
}

// SetStatus はラベルで指定された状態へ遷移する。Cerrado は Close を使う。
func (s *ProjectServiceImpl) SetStatus(ctx context.Context, id int64, label string) (*model.StatusEvent, error) {
	next, ok := model.ParseProjectStatus(label)
	if !ok {
		return nil, invalid("estado", fmt.Sprintf("estado desconocido %q", label))
	}
	if next == model.StatusClosed {
		return nil, ErrClosureRequired
	}
	return s.transition(ctx, id, next)
}

func (s *ProjectServiceImpl) transition(ctx context.Context, id int64, next model.ProjectStatus) (*model.StatusEvent, error) {
	var ev *model.StatusEvent
	err := s.tx.InTx(ctx, func(st *repository.Store) error {
		p, err := st.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, resourceProject)
		}
		if p.Status.Terminal() {
			return ErrAlreadyClosed
		}
		if !p.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}
		ev, err = st.Projects.AppendStatus(ctx, id, next)
		if err != nil {
			return fmt.Errorf("append status %s: %w", next, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "project status changed", "project_id", id, "status", string(next))
	return ev, nil
}

// Close は Activo の voluntariado を閉じる。
// 状態追加・スナップショット・履歴作成・割当削除を 1 トランザクションで行う。
func (s *ProjectServiceImpl) Close(ctx context.Context, id int64, closure model.Closure) (*model.HistoricalProject, error) {
	closure.Achievements = strings.TrimSpace(closure.Achievements)
	if err := validateClosure(closure); err != nil {
		return nil, err
	}
	closure.ExecutedBudget = model.RoundAmount(closure.ExecutedBudget)

	var archived *model.HistoricalProject
	var released int64
	err := s.tx.InTx(ctx, func(st *repository.Store) error {
		p, err := st.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, resourceProject)
		}
		if p.Status.Terminal() {
			return ErrAlreadyClosed
		}
		if !p.Status.CanTransitionTo(model.StatusClosed) {
			return ErrInvalidTransition
		}
		if _, err := st.Projects.AppendStatus(ctx, id, model.StatusClosed); err != nil {
			return fmt.Errorf("append closed status: %w", err)
		}

		volunteers, err := st.Assignments.ListAssigned(ctx, id)
		if err != nil {
			return fmt.Errorf("snapshot volunteers: %w", err)
		}
		evidence, err := st.Evidence.ListByProject(ctx, id)
		if err != nil {
			return fmt.Errorf("snapshot evidence: %w", err)
		}
		attendance, err := st.Attendance.ListByProject(ctx, id)
		if err != nil {
			return fmt.Errorf("snapshot attendance: %w", err)
		}
		countPresent(attendance)

		h := &model.HistoricalProject{
			ProjectID:      id,
			ProjectName:    p.Name,
			ExecutedBudget: closure.ExecutedBudget,
			Achievements:   closure.Achievements,
			Volunteers:     volunteers,
			Evidence:       evidence,
			Attendance:     attendance,
		}
		if err := st.History.Create(ctx, h); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyClosed
			}
			return fmt.Errorf("archive project: %w", err)
		}

		released, err = st.Assignments.DeleteByProject(ctx, id)
		if err != nil {
			return fmt.Errorf("release assignments: %w", err)
		}
		if err := st.Projects.RecordClosure(ctx, id, closure.ExecutedBudget); err != nil {
			return fmt.Errorf("record closure: %w", err)
		}
		archived = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "project closed",
		"project_id", id,
		"history_id", archived.ID,
		"released_assignments", released,
		"evidence", len(archived.Evidence),
		"attendance_sessions", len(archived.Attendance),
	)
	return archived, nil
}

// History は閉鎖時のスナップショットを返す
func (s *ProjectServiceImpl) History(ctx context.Context, id int64) (*model.HistoricalProject, error) {
	h, err := s.store.History.GetByProjectID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Historial")
	}
	return h, nil
}

func validateProject(p *model.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.TrimSpace(p.Type)
	p.GeneralObjective = strings.TrimSpace(p.GeneralObjective)
	p.TargetAudience = strings.TrimSpace(p.TargetAudience)

	switch {
	case p.Name == "":
		return invalid("nombre", "es obligatorio")
	case p.Type == "":
		return invalid("tipo", "es obligatorio")
	case p.StartDate.IsZero():
		return invalid("fecha_inicio", "es obligatoria")
	case p.EndDate.IsZero():
		return invalid("fecha_fin", "es obligatoria")
	case p.EndDate.Before(p.StartDate):
		return invalid("fecha_fin", "no puede ser anterior a fecha_inicio")
	case p.GeneralObjective == "":
		return invalid("objetivo_general", "es obligatorio")
	case p.TargetAudience == "":
		return invalid("publico_objetivo", "es obligatorio")
	}

	objectives := p.SpecificObjectives[:0]
	for _, o := range p.SpecificObjectives {
		if o = strings.TrimSpace(o); o != "" {
			objectives = append(objectives, o)
		}
	}
	if len(objectives) > model.MaxSpecificObjectives {
		return invalid("objetivos_especificos", fmt.Sprintf("máximo %d objetivos", model.MaxSpecificObjectives))
	}
	p.SpecificObjectives = objectives

	if p.DirectBeneficiaries != nil {
		if err := validateCount("beneficiarios_directos", *p.DirectBeneficiaries); err != nil {
			return err
		}
	}
	if p.IndirectBeneficiaries != nil {
		if err := validateCount("beneficiarios_indirectos", *p.IndirectBeneficiaries); err != nil {
			return err
		}
	}
	if p.InitialBudget != nil {
		if err := validateAmount("presupuesto_inicial", *p.InitialBudget, false); err != nil {
			return err
		}
		b := model.RoundAmount(*p.InitialBudget)
		p.InitialBudget = &b
	}
	if p.Allies != nil {
		a := strings.TrimSpace(*p.Allies)
		if a == "" {
			p.Allies = nil
		} else {
			p.Allies = &a
		}
	}
	return nil
}

func validateClosure(c model.Closure) error {
	if err := validateAmount("presupuestoEjecutado", c.ExecutedBudget, true); err != nil {
		return err
	}
	if c.Achievements == "" {
		return invalid("logros", "es obligatorio")
	}
	if utf8.RuneCountInString(c.Achievements) > model.MaxAchievementsLength {
		return invalid("logros", fmt.Sprintf("máximo %d caracteres", model.MaxAchievementsLength))
	}
	return nil
}

// validateAmount checks v against a NUMERIC(14,2) column once rounded to cents.
func validateAmount(field string, v float64, positive bool) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "debe ser un número")
	}
	r := model.RoundAmount(v)
	switch {
	case positive && r <= 0:
		return invalid(field, "debe ser un número positivo")
	case r < 0:
		return invalid(field, "no puede ser negativo")
	case r >= model.MaxAmount:
		return invalid(field, "excede el monto máximo permitido")
	}
	return nil
}

func validateCount(field string, n int) error {
	switch {
	case n < 0:
		return invalid(field, "no puede ser negativo")
	case n > model.MaxCount:
		return invalid(field, fmt.Sprintf("no puede superar %d", model.MaxCount))
	}
	return nil
}
