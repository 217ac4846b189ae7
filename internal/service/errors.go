package service

import (
	"errors"

	"github.com/kururay/backend/internal/repository"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// NotFoundError names the missing resource. It unwraps to repository.ErrNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " no encontrado" }

func (e *NotFoundError) Unwrap() error { return repository.ErrNotFound }

// notFound converts repository.ErrNotFound into a NotFoundError for resource.
func notFound(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: resource}
	}
	return err
}

// ConflictError is a request that is well-formed but illegal in the current state.
type ConflictError struct {
	msg string
}

func (e *ConflictError) Error() string { return e.msg }

var (
	ErrInvalidTransition    = &ConflictError{"transición de estado no permitida"}
	ErrAlreadyClosed        = &ConflictError{"el voluntariado ya está cerrado"}
	ErrClosureRequired      = &ConflictError{"para cerrar un voluntariado use la acción de cierre"}
	ErrVisibilityNotAllowed = &ConflictError{"solo un voluntariado aprobado o activo puede darse de alta"}
	ErrProjectNotActive     = &ConflictError{"el voluntariado no está activo"}
	ErrAlreadyAssigned      = &ConflictError{"el voluntario ya está asignado a este voluntariado"}
	ErrVolunteerBusy        = &ConflictError{"el voluntario ya está asignado a otro voluntariado"}
)

var (
	// ErrForbidden is returned when the actor may not act on the resource.
	ErrForbidden = errors.New("no tiene permiso para realizar esta acción")
	// ErrInvalidCredentials hides whether the DNI or the password was wrong.
	ErrInvalidCredentials = errors.New("Usuario o clave incorrecto")
)
