package model

import "time"

// AttendanceSession is a named session of a project with per-volunteer entries.
type AttendanceSession struct {
	ID        int64             `json:"id"`
	ProjectID int64             `json:"id_voluntariado"`
	Name      string            `json:"nombre"`
	Date      time.Time         `json:"fecha"`
	Entries   []AttendanceEntry `json:"registros"`
	// Present is PresentCount, filled in by the service for responses and archives.
	Present   int               `json:"presentes"`
}

// AttendanceEntry marks one volunteer present or absent.
type AttendanceEntry struct {
	VolunteerID int64 `json:"id_voluntario"`
	Present     bool  `json:"presente"`
}

// PresentCount returns how many entries are marked present.
func (s *AttendanceSession) PresentCount() int {
	n := 0
	for _, e := range s.Entries {
		if e.Present {
			n++
		}
	}
	return n
}
