package model

import "time"

type Subject struct {
	ID        string    `gorm:"primaryKey;size:10" json:"subject_id"`
	Name      string    `gorm:"size:100;not null" json:"subject_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Enrollment links a student to a subject; the pair is unique.
type Enrollment struct {
	StudentID uint      `gorm:"primaryKey;autoIncrement:false" json:"student_id"`
	SubjectID string    `gorm:"primaryKey;size:10" json:"subject_id"`
	Student   Student   `json:"-"`
	Subject   Subject   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Grade is one student's score in one subject.
type Grade struct {
	StudentID uint      `gorm:"primaryKey;autoIncrement:false" json:"student_id"`
	SubjectID string    `gorm:"primaryKey;size:10" json:"subject_id"`
	Subject   Subject   `json:"-"`
	Score     float64   `gorm:"not null;check:score >= 0 AND score <= 100" json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every table for AutoMigrate.
func All() []interface{} {
	return []interface{}{&Student{}, &Subject{}, &Enrollment{}, &Grade{}}
}
