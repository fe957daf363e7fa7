package model

import (
	"gradebook/internal/record"
	"time"
)

type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"firstname"`
	LastName  string    `gorm:"size:100;not null" json:"lastname"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Grades    []Grade   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record converts a row into the engine's student. Grades must have been
// loaded with their Subject so they can be keyed by subject name.
func (s Student) Record() *record.Student {
	r := record.NewStudent(int(s.ID), s.FirstName, s.LastName, s.Email)
	for _, g := range s.Grades {
		name := g.Subject.Name
		if name == "" {
			name = g.SubjectID
		}
		r.Grades[name] = g.Score
	}
	return r
}
