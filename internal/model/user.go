package model

import "time"

// User is a staff account (usuarios) that can log in.
type User struct {
	ID           int64     `json:"id"`
	DNI          string    `json:"dni"`
	Name         string    `json:"nombre"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
