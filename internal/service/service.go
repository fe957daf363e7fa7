package service

import (
	"gorm.io/gorm"
	"time"
)

// Services is every service wired to one database.
type Services struct {
	Students    *StudentService
	Subjects    *SubjectService
	Enrollments *EnrollmentService
	Grades      *GradeService
	Stats       *StatsService
	Uploads     *UploadService
	Exports     *ExportService
}

func New(db *gorm.DB, statsTTL time.Duration, maxConcurrentImports int) *Services {
	stats := NewStatsService(statsTTL)
	students := NewStudentService(db, stats)
	stats.SetSource(students.LoadStore)
	subjects := NewSubjectService(db, stats)
	enrollments := NewEnrollmentService(db, students, subjects, stats)

	return &Services{
		Students:    students,
		Subjects:    subjects,
		Enrollments: enrollments,
		Grades:      NewGradeService(db, subjects, enrollments, stats),
		Stats:       stats,
		Uploads:     NewUploadService(db, students, subjects, stats, maxConcurrentImports),
		Exports:     NewExportService(students),
	}
}
