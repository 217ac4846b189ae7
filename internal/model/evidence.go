package model

import (
	"math"
	"time"
)

// Evidence records an activity carried out on an active project.
type Evidence struct {
	ID                      int64     `json:"id"`
	ProjectID               int64     `json:"id_voluntariado"`
	Date                    time.Time `json:"fecha"`
	Description             string    `json:"descripcion"`
	Incidents               string    `json:"incidencias,omitempty"`
	Attendees               int       `json:"asistentes"`
	Absentees               int       `json:"ausentes"`
	ParticipationPercentage float64   `json:"porcentaje_participacion"`
	PhotoURL                string    `json:"foto_url,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
}

// ParticipationPercentage returns attendees over the expected total as a
// percentage rounded to two decimals. Zero expected people yields 0.
func ParticipationPercentage(attendees, absentees int) float64 {
	total := attendees + absentees
	if total <= 0 {
		return 0
	}
	return math.Round(float64(attendees)/float64(total)*10000) / 100
}
