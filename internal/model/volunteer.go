package model

import "time"

// Volunteer is a person who can be assigned to projects.
type Volunteer struct {
	ID        int64  `json:"id"`
	DNI       string `json:"dni"`
	FirstName string `json:"nombres"`
	LastName  string `json:"apellidos"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"telefono,omitempty"`
}

// Assignment attaches a volunteer to a project.
type Assignment struct {
	ProjectID   int64     `json:"id_voluntariado"`
	VolunteerID int64     `json:"id_voluntario"`
	AssignedAt  time.Time `json:"fecha_asignacion"`
}

// AssignedVolunteer is a volunteer joined with their assignment timestamp.
type AssignedVolunteer struct {
	Volunteer
	ProjectID  int64     `json:"id_voluntariado"`
	AssignedAt time.Time `json:"fecha_asignacion"`
}
