package repository

import (
	"context"

	"github.com/kururay/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// UserRepository reads staff accounts for login.
type UserRepository interface {
	FindByDNI(ctx context.Context, dni string) (*model.User, error)
}

// Store groups the repositories that share one Querier. Inside a transaction
// every repository in the Store sees the same snapshot and locks.
type Store struct {
	Projects    ProjectRepository
	Volunteers  VolunteerRepository
	Assignments AssignmentRepository
	Evidence    EvidenceRepository
	Attendance  AttendanceRepository
	History     HistoryRepository
}

// NewPgStore builds a Store whose repositories all run on q.
func NewPgStore(q Querier) *Store {
	return &Store{
		Projects:    NewPgProjectRepository(q),
		Volunteers:  NewPgVolunteerRepository(q),
		Assignments: NewPgAssignmentRepository(q),
		Evidence:    NewPgEvidenceRepository(q),
		Attendance:  NewPgAttendanceRepository(q),
		History:     NewPgHistoryRepository(q),
	}
}

// TxRunner runs fn as one unit of work. If fn returns an error every statement
// it issued is rolled back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(s *Store) error) error
}
