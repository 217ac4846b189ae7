package model

import "strings"

// ProjectStatus is the workflow status of a volunteering project.
// The current status is the latest row in estados_voluntariado.
type ProjectStatus string

const (
	StatusPending  ProjectStatus = "Pendiente"
	StatusApproved ProjectStatus = "Aprobado"
	StatusActive   ProjectStatus = "Activo"
	StatusClosed   ProjectStatus = "Cerrado"
)

// transitions lists the only legal forward moves. Cerrado has no exits.
var transitions = map[ProjectStatus]ProjectStatus{
	StatusPending:  StatusApproved,
	StatusApproved: StatusActive,
	StatusActive:   StatusClosed,
}

// ParseProjectStatus accepts the Spanish labels case-insensitively.
func ParseProjectStatus(s string) (ProjectStatus, bool) {
	for _, st := range []ProjectStatus{StatusPending, StatusApproved, StatusActive, StatusClosed} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusActive, StatusClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	to, ok := transitions[s]
	return ok && to == next
}

// Terminal reports whether no further transitions are possible.
func (s ProjectStatus) Terminal() bool {
	return s == StatusClosed
}

// AllowsVisibility reports whether a project in status s may be listed as "De Alta".
func (s ProjectStatus) AllowsVisibility() bool {
	return s == StatusApproved || s == StatusActive
}
