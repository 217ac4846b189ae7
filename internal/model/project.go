package model

import (
	"math"
	"time"
)

// MaxSpecificObjectives is the number of objetivo_especifico columns.
const MaxSpecificObjectives = 5

const (
	// MaxAmount is the exclusive upper bound of NUMERIC(14,2) money columns.
	MaxAmount = 1e12
	// MaxCount is the upper bound of INTEGER count columns.
	MaxCount = math.MaxInt32
)

// RoundAmount rounds v to cents, the precision money columns store.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}

// Project is a volunteering project (voluntariado).
type Project struct {
	ID                    int64         `json:"id"`
	OwnerID               int64         `json:"id_usuario"`
	Name                  string        `json:"nombre"`
	Type                  string        `json:"tipo"`
	StartDate             time.Time     `json:"fecha_inicio"`
	EndDate               time.Time     `json:"fecha_fin"`
	GeneralObjective      string        `json:"objetivo_general"`
	SpecificObjectives    []string      `json:"objetivos_especificos"`
	TargetAudience        string        `json:"publico_objetivo"`
	DirectBeneficiaries   *int          `json:"beneficiarios_directos,omitempty"`
	IndirectBeneficiaries *int          `json:"beneficiarios_indirectos,omitempty"`
	InitialBudget         *float64      `json:"presupuesto_inicial,omitempty"`
	ExecutedBudget        *float64      `json:"presupuesto_ejecutado,omitempty"`
	Allies                *string       `json:"aliados,omitempty"`
	Visible               bool          `json:"estado_alta"`
	Status                ProjectStatus `json:"estado"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// VisibilityLabel returns the "De Alta" / "De Baja" label shown to administrators.
func (p *Project) VisibilityLabel() string {
	if p.Visible {
		return "De Alta"
	}
	return "De Baja"
}

// ProjectFilter narrows project listings. Nil fields do not filter.
type ProjectFilter struct {
	Status  *ProjectStatus
	Visible *bool
}

// StatusEvent is one append-only row of a project's status history.
type StatusEvent struct {
	ID        int64         `json:"id"`
	ProjectID int64         `json:"id_voluntariado"`
	Status    ProjectStatus `json:"estado"`
	At        time.Time     `json:"fecha"`
}
