package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gradebook/internal/database"
	"gradebook/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func setupServices(t *testing.T) (*Services, *gorm.DB) {
	db := setupTestDB(t)
	return New(db, time.Minute, 2), db
}

func createStudent(t *testing.T, svc *Services, first, last, email string) *model.Student {
	t.Helper()
	s, err := svc.Students.CreateStudent(StudentInput{FirstName: first, LastName: last, Email: email})
	require.NoError(t, err)
	return s
}

func createSubject(t *testing.T, svc *Services, id, name string) *model.Subject {
	t.Helper()
	s, err := svc.Subjects.CreateSubject(id, name)
	require.NoError(t, err)
	return s
}

func grade(t *testing.T, svc *Services, studentID uint, subjectID string, score float64) {
	t.Helper()
	if ok, _ := svc.Enrollments.IsEnrolled(studentID, subjectID); !ok {
		require.NoError(t, svc.Enrollments.Enroll(studentID, subjectID))
	}
	_, err := svc.Grades.SetGrade(studentID, subjectID, score)
	require.NoError(t, err)
}
