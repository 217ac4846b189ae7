package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"time"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/repository"
)

// memDB はテスト用のインメモリ DB。InTx がエラーで終わると状態を巻き戻す。
type memDB struct {
	projects    map[int64]model.Project
	events      []model.StatusEvent
	volunteers  map[int64]model.Volunteer
	assignments []model.Assignment
	evidence    []model.Evidence
	sessions    []model.AttendanceSession
	history     map[int64]model.HistoricalProject
	seq         int64
	tick        int64

	// 障害注入
	historyErr error
	deleteErr  error
	projectErr error
	locks      []string
}

var memEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newMemDB() *memDB {
	return &memDB{
		projects:   map[int64]model.Project{},
		volunteers: map[int64]model.Volunteer{},
		history:    map[int64]model.HistoricalProject{},
	}
}

func (db *memDB) nextID() int64 { db.seq++; return db.seq }

func (db *memDB) now() time.Time {
	db.tick++
	return memEpoch.Add(time.Duration(db.tick) * time.Second)
}

func (db *memDB) snapshot() memDB {
	c := *db
	c.projects = make(map[int64]model.Project, len(db.projects))
	for k, v := range db.projects {
		c.projects[k] = v
	}
	c.volunteers = make(map[int64]model.Volunteer, len(db.volunteers))
	for k, v := range db.volunteers {
		c.volunteers[k] = v
	}
	c.history = make(map[int64]model.HistoricalProject, len(db.history))
	for k, v := range db.history {
		c.history[k] = v
	}
	c.events = slices.Clone(db.events)
	c.assignments = slices.Clone(db.assignments)
	c.evidence = slices.Clone(db.evidence)
	c.sessions = slices.Clone(db.sessions)
	return c
}

func (db *memDB) store() *repository.Store {
	return &repository.Store{
		Projects:    memProjects{db},
		Volunteers:  memVolunteers{db},
		Assignments: memAssignments{db},
		Evidence:    memEvidence{db},
		Attendance:  memAttendance{db},
		History:     memHistory{db},
	}
}

// InTx implements repository.TxRunner.
func (db *memDB) InTx(_ context.Context, fn func(s *repository.Store) error) error {
	saved := db.snapshot()
	if err := fn(db.store()); err != nil {
		historyErr, deleteErr, projectErr, locks := db.historyErr, db.deleteErr, db.projectErr, db.locks
		*db = saved
		db.historyErr, db.deleteErr, db.projectErr, db.locks = historyErr, deleteErr, projectErr, locks
		return err
	}
	return nil
}

func (db *memDB) status(id int64) model.ProjectStatus {
	st := model.StatusPending
	for _, ev := range db.events {
		if ev.ProjectID == id {
			st = ev.Status
		}
	}
	return st
}

func (db *memDB) eventsOf(id int64) []model.StatusEvent {
	var out []model.StatusEvent
	for _, ev := range db.events {
		if ev.ProjectID == id {
			out = append(out, ev)
		}
	}
	return out
}

func (db *memDB) assignmentsOf(id int64) []model.Assignment {
	var out []model.Assignment
	for _, a := range db.assignments {
		if a.ProjectID == id {
			out = append(out, a)
		}
	}
	return out
}

// seedProject は指定の状態の voluntariado を直接作る
func (db *memDB) seedProject(name string, path ...model.ProjectStatus) int64 {
	id := db.nextID()
	db.projects[id] = model.Project{ID: id, OwnerID: 1, Name: name, CreatedAt: db.now()}
	db.events = append(db.events, model.StatusEvent{ID: db.nextID(), ProjectID: id, Status: model.StatusPending, At: db.now()})
	for _, st := range path {
		db.events = append(db.events, model.StatusEvent{ID: db.nextID(), ProjectID: id, Status: st, At: db.now()})
	}
	return id
}

func (db *memDB) seedVolunteer(first string) int64 {
	id := db.nextID()
	db.volunteers[id] = model.Volunteer{ID: id, DNI: "7000000" + first[:1], FirstName: first, LastName: "Quispe"}
	return id
}

type memProjects struct{ db *memDB }

func (m memProjects) get(id int64) (*model.Project, error) {
	p, ok := m.db.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.SpecificObjectives = slices.Clone(p.SpecificObjectives)
	p.Status = m.db.status(id)
	return &p, nil
}

func (m memProjects) List(_ context.Context, f model.ProjectFilter) ([]*model.Project, error) {
	ids := make([]int64, 0, len(m.db.projects))
	for id := range m.db.projects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	var out []*model.Project
	for _, id := range ids {
		p, _ := m.get(id)
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.Visible != nil && p.Visible != *f.Visible {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m memProjects) GetByID(_ context.Context, id int64) (*model.Project, error) { return m.get(id) }

func (m memProjects) GetForUpdate(_ context.Context, id int64) (*model.Project, error) {
	m.db.locks = append(m.db.locks, "voluntariado")
	return m.get(id)
}

func (m memProjects) Create(_ context.Context, p *model.Project) error {
	if m.db.projectErr != nil {
		return m.db.projectErr
	}
	p.ID = m.db.nextID()
	p.CreatedAt = m.db.now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.Status = ""
	m.db.projects[p.ID] = stored
	return nil
}

func (m memProjects) Update(_ context.Context, p *model.Project) error {
	cur, ok := m.db.projects[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name, cur.Type = p.Name, p.Type
	cur.StartDate, cur.EndDate = p.StartDate, p.EndDate
	cur.GeneralObjective, cur.SpecificObjectives = p.GeneralObjective, slices.Clone(p.SpecificObjectives)
	cur.TargetAudience = p.TargetAudience
	cur.DirectBeneficiaries, cur.IndirectBeneficiaries = p.DirectBeneficiaries, p.IndirectBeneficiaries
	cur.InitialBudget, cur.Allies = p.InitialBudget, p.Allies
	cur.UpdatedAt = m.db.now()
	p.UpdatedAt = cur.UpdatedAt
	m.db.projects[p.ID] = cur
	return nil
}

func (m memProjects) SetVisibility(_ context.Context, id int64, visible bool) error {
	p, ok := m.db.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Visible = visible
	m.db.projects[id] = p
	return nil
}

func (m memProjects) RecordClosure(_ context.Context, id int64, budget float64) error {
	p, ok := m.db.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.ExecutedBudget = &budget
	p.Visible = false
	m.db.projects[id] = p
	return nil
}

func (m memProjects) AppendStatus(_ context.Context, id int64, st model.ProjectStatus) (*model.StatusEvent, error) {
	if _, ok := m.db.projects[id]; !ok {
		return nil, repository.ErrNotFound
	}
	ev := model.StatusEvent{ID: m.db.nextID(), ProjectID: id, Status: st, At: m.db.now()}
	m.db.events = append(m.db.events, ev)
	return &ev, nil
}

func (m memProjects) ListStatusEvents(_ context.Context, id int64) ([]*model.StatusEvent, error) {
	evs := m.db.eventsOf(id)
	out := make([]*model.StatusEvent, 0, len(evs))
	for i := len(evs) - 1; i >= 0; i-- {
		ev := evs[i]
		out = append(out, &ev)
	}
	return out, nil
}

type memVolunteers struct{ db *memDB }

func (m memVolunteers) GetByID(_ context.Context, id int64) (*model.Volunteer, error) {
	v, ok := m.db.volunteers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (m memVolunteers) GetForUpdate(ctx context.Context, id int64) (*model.Volunteer, error) {
	m.db.locks = append(m.db.locks, "voluntario")
	return m.GetByID(ctx, id)
}

func (m memVolunteers) ListWithoutPassword(context.Context) ([]*model.Volunteer, error) {
	return nil, nil
}

func (m memVolunteers) SetPassword(context.Context, int64, string) error { return nil }

type memAssignments struct{ db *memDB }

func (m memAssignments) Create(_ context.Context, a *model.Assignment) error {
	for _, x := range m.db.assignments {
		if x.VolunteerID == a.VolunteerID {
			return repository.ErrDuplicate
		}
	}
	a.AssignedAt = m.db.now()
	m.db.assignments = append(m.db.assignments, *a)
	return nil
}

func (m memAssignments) Delete(_ context.Context, projectID, volunteerID int64) error {
	for i, x := range m.db.assignments {
		if x.ProjectID == projectID && x.VolunteerID == volunteerID {
			m.db.assignments = slices.Delete(m.db.assignments, i, i+1)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m memAssignments) DeleteByProject(_ context.Context, projectID int64) (int64, error) {
	if m.db.deleteErr != nil {
		return 0, m.db.deleteErr
	}
	before := len(m.db.assignments)
	m.db.assignments = slices.DeleteFunc(m.db.assignments, func(a model.Assignment) bool {
		return a.ProjectID == projectID
	})
	return int64(before - len(m.db.assignments)), nil
}

func (m memAssignments) FindByVolunteer(_ context.Context, volunteerID int64) (*model.Assignment, error) {
	for _, x := range m.db.assignments {
		if x.VolunteerID == volunteerID {
			return &x, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memAssignments) ListAssigned(_ context.Context, projectID int64) ([]model.AssignedVolunteer, error) {
	var out []model.AssignedVolunteer
	for _, a := range m.db.assignmentsOf(projectID) {
		out = append(out, model.AssignedVolunteer{Volunteer: m.db.volunteers[a.VolunteerID], ProjectID: projectID, AssignedAt: a.AssignedAt})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

func (m memAssignments) ListUnassignedVolunteers(context.Context) ([]model.Volunteer, error) {
	var out []model.Volunteer
	for _, v := range m.db.volunteers {
		busy := slices.ContainsFunc(m.db.assignments, func(a model.Assignment) bool { return a.VolunteerID == v.ID })
		if !busy {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memEvidence struct{ db *memDB }

func (m memEvidence) Create(_ context.Context, e *model.Evidence) error {
	e.ID = m.db.nextID()
	e.CreatedAt = m.db.now()
	m.db.evidence = append(m.db.evidence, *e)
	return nil
}

func (m memEvidence) GetByID(_ context.Context, id int64) (*model.Evidence, error) {
	for _, e := range m.db.evidence {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memEvidence) ListByProject(_ context.Context, projectID int64) ([]model.Evidence, error) {
	var out []model.Evidence
	for _, e := range m.db.evidence {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m memEvidence) Delete(_ context.Context, id int64) error {
	for i, e := range m.db.evidence {
		if e.ID == id {
			m.db.evidence = slices.Delete(m.db.evidence, i, i+1)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m memEvidence) UpdatePhotoURL(_ context.Context, id int64, url string) error {
	for i, e := range m.db.evidence {
		if e.ID == id {
			m.db.evidence[i].PhotoURL = url
			return nil
		}
	}
	return repository.ErrNotFound
}

type memAttendance struct{ db *memDB }

func (m memAttendance) CreateSession(_ context.Context, s *model.AttendanceSession) error {
	s.ID = m.db.nextID()
	c := *s
	c.Entries = slices.Clone(s.Entries)
	m.db.sessions = append(m.db.sessions, c)
	return nil
}

func (m memAttendance) ListByProject(_ context.Context, projectID int64) ([]model.AttendanceSession, error) {
	var out []model.AttendanceSession
	for _, s := range m.db.sessions {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memHistory struct{ db *memDB }

func (m memHistory) Create(_ context.Context, h *model.HistoricalProject) error {
	if m.db.historyErr != nil {
		return m.db.historyErr
	}
	if _, ok := m.db.history[h.ProjectID]; ok {
		return repository.ErrDuplicate
	}
	h.ID = m.db.nextID()
	h.ClosedAt = m.db.now()
	m.db.history[h.ProjectID] = *h
	return nil
}

func (m memHistory) GetByProjectID(_ context.Context, projectID int64) (*model.HistoricalProject, error) {
	h, ok := m.db.history[projectID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &h, nil
}

var errBoom = errors.New("boom")
