package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// PgProjectRepository は ProjectRepository の PostgreSQL 実装
type PgProjectRepository struct {
	db Querier
}

// NewPgProjectRepository は PgProjectRepository を生成する
func NewPgProjectRepository(db Querier) *PgProjectRepository {
	return &PgProjectRepository{db: db}
}

// currentStatusExpr derives the current status from the newest history row.
// Rows are ordered by id: ids follow insert order, fecha ties inside a transaction.
const currentStatusExpr = `COALESCE((SELECT e.estado FROM estados_voluntariado e
	WHERE e.id_voluntariado = v.id ORDER BY e.id DESC LIMIT 1), 'Pendiente')`

const projectSelectCols = `v.id, v.id_usuario, v.nombre, v.tipo, v.fecha_inicio, v.fecha_fin,
	v.objetivo_general, v.objetivo_especifico1, v.objetivo_especifico2, v.objetivo_especifico3,
	v.objetivo_especifico4, v.objetivo_especifico5, v.publico_objetivo,
	v.beneficiarios_directos, v.beneficiarios_indirectos, v.presupuesto_inicial,
	v.presupuesto_ejecutado, v.aliados, v.estado_alta, ` + currentStatusExpr + ` AS estado,
	v.created_at, v.updated_at`

func scanProject(scan func(...any) error) (*model.Project, error) {
	var p model.Project
	var objectives [model.MaxSpecificObjectives]*string
	var status string
	err := scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Type, &p.StartDate, &p.EndDate,
		&p.GeneralObjective, &objectives[0], &objectives[1], &objectives[2],
		&objectives[3], &objectives[4], &p.TargetAudience,
		&p.DirectBeneficiaries, &p.IndirectBeneficiaries, &p.InitialBudget,
		&p.ExecutedBudget, &p.Allies, &p.Visible, &status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	p.Status = model.ProjectStatus(status)
	p.SpecificObjectives = []string{}
	for _, o := range objectives {
		if o != nil && *o != "" {
			p.SpecificObjectives = append(p.SpecificObjectives, *o)
		}
	}
	return &p, nil
}

// objectiveColumns spreads the specific objectives over the five columns.
func objectiveColumns(objectives []string) [model.MaxSpecificObjectives]*string {
	var cols [model.MaxSpecificObjectives]*string
	for i := 0; i < len(objectives) && i < model.MaxSpecificObjectives; i++ {
		o := objectives[i]
		cols[i] = &o
	}
	return cols
}

// List は条件に合う voluntariados を新しい順に返す
func (r *PgProjectRepository) List(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	rows, err := r.db.Query(ctx,
		`SELECT * FROM (SELECT `+projectSelectCols+` FROM voluntariados v) p
		 WHERE ($1::text IS NULL OR p.estado = $1)
		   AND ($2::boolean IS NULL OR p.estado_alta = $2)
		 ORDER BY p.created_at DESC, p.id DESC`,
		status, filter.Visible,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*model.Project{}
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetByID は ID で voluntariado を取得する
func (r *PgProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+projectSelectCols+` FROM voluntariados v WHERE v.id = $1`, id)
	return scanProject(row.Scan)
}

// GetForUpdate locks the row first and reads it in a second statement. Under
// read committed the second statement takes a fresh snapshot, so it sees the
// status events committed by whoever held the lock before us.
func (r *PgProjectRepository) GetForUpdate(ctx context.Context, id int64) (*model.Project, error) {
	var locked int64
	if err := r.db.QueryRow(ctx,
		`SELECT id FROM voluntariados WHERE id = $1 FOR UPDATE`, id,
	).Scan(&locked); err != nil {
		return nil, mapErr(err)
	}
	return r.GetByID(ctx, locked)
}

// Create inserts the project row only; the initial status event is appended
// by the caller in the same transaction.
func (r *PgProjectRepository) Create(ctx context.Context, p *model.Project) error {
	obj := objectiveColumns(p.SpecificObjectives)
	err := r.db.QueryRow(ctx,
		`INSERT INTO voluntariados (id_usuario, nombre, tipo, fecha_inicio, fecha_fin, objetivo_general,
		   objetivo_especifico1, objetivo_especifico2, objetivo_especifico3, objetivo_especifico4,
		   objetivo_especifico5, publico_objetivo, beneficiarios_directos, beneficiarios_indirectos,
		   presupuesto_inicial, aliados, estado_alta)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING id, created_at, updated_at`,
		p.OwnerID, p.Name, p.Type, p.StartDate, p.EndDate, p.GeneralObjective,
		obj[0], obj[1], obj[2], obj[3], obj[4], p.TargetAudience,
		p.DirectBeneficiaries, p.IndirectBeneficiaries, p.InitialBudget, p.Allies, p.Visible,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapErr(err)
}

// Update overwrites the content columns. Status, visibility, owner and the
// executed budget are never written here.
func (r *PgProjectRepository) Update(ctx context.Context, p *model.Project) error {
	obj := objectiveColumns(p.SpecificObjectives)
	err := r.db.QueryRow(ctx,
		`UPDATE voluntariados SET nombre = $1, tipo = $2, fecha_inicio = $3, fecha_fin = $4,
		   objetivo_general = $5, objetivo_especifico1 = $6, objetivo_especifico2 = $7,
		   objetivo_especifico3 = $8, objetivo_especifico4 = $9, objetivo_especifico5 = $10,
		   publico_objetivo = $11, beneficiarios_directos = $12, beneficiarios_indirectos = $13,
		   presupuesto_inicial = $14, aliados = $15, updated_at = NOW()
		 WHERE id = $16
		 RETURNING updated_at`,
		p.Name, p.Type, p.StartDate, p.EndDate, p.GeneralObjective,
		obj[0], obj[1], obj[2], obj[3], obj[4],
		p.TargetAudience, p.DirectBeneficiaries, p.IndirectBeneficiaries,
		p.InitialBudget, p.Allies, p.ID,
	).Scan(&p.UpdatedAt)
	return mapErr(err)
}

func (r *PgProjectRepository) SetVisibility(ctx context.Context, id int64, visible bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE voluntariados SET estado_alta = $1, updated_at = NOW() WHERE id = $2`,
		visible, id,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgProjectRepository) RecordClosure(ctx context.Context, id int64, executedBudget float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE voluntariados SET presupuesto_ejecutado = $1, estado_alta = FALSE, updated_at = NOW()
		 WHERE id = $2`,
		executedBudget, id,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendStatus は estados_voluntariado に1行追加する
func (r *PgProjectRepository) AppendStatus(ctx context.Context, id int64, status model.ProjectStatus) (*model.StatusEvent, error) {
	ev := &model.StatusEvent{ProjectID: id, Status: status}
	err := r.db.QueryRow(ctx,
		`INSERT INTO estados_voluntariado (id_voluntariado, estado) VALUES ($1, $2)
		 RETURNING id, fecha`,
		id, string(status),
	).Scan(&ev.ID, &ev.At)
	if err != nil {
		return nil, mapErr(err)
	}
	return ev, nil
}

func (r *PgProjectRepository) ListStatusEvents(ctx context.Context, id int64) ([]*model.StatusEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, id_voluntariado, estado, fecha FROM estados_voluntariado
		 WHERE id_voluntariado = $1 ORDER BY id DESC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*model.StatusEvent{}
	for rows.Next() {
		var ev model.StatusEvent
		var status string
		if err := rows.Scan(&ev.ID, &ev.ProjectID, &status, &ev.At); err != nil {
			return nil, err
		}
		ev.Status = model.ProjectStatus(status)
		events = append(events, &ev)
	}
	return events, rows.Err()
}
