package model

import "time"

// MaxAchievementsLength bounds the closure achievements text, in characters.
const MaxAchievementsLength = 1000

// Closure carries the data supplied when a project is closed.
type Closure struct {
	ExecutedBudget float64
	Achievements   string
}

// HistoricalProject is the write-once archive created when a project closes.
// Volunteers, Evidence and Attendance are snapshots taken inside the closing
// transaction.
type HistoricalProject struct {
	ID             int64               `json:"id"`
	ProjectID      int64               `json:"id_voluntariado"`
	ProjectName    string              `json:"nombre"`
	ClosedAt       time.Time           `json:"fecha_cierre"`
	ExecutedBudget float64             `json:"presupuesto_ejecutado"`
	Achievements   string              `json:"logros"`
	Volunteers     []AssignedVolunteer `json:"voluntarios"`
	Evidence       []Evidence          `json:"evidencias"`
	Attendance     []AttendanceSession `json:"asistencias"`
}
