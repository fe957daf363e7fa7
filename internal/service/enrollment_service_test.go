package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gradebook/internal/apperr"
)

func TestEnrollAndRoster(t *testing.T) {
	svc, _ := setupServices(t)
	zed := createStudent(t, svc, "Zed", "Adams", "zed@example.com")
	amy := createStudent(t, svc, "Amy", "Adams", "amy@example.com")
	bob := createStudent(t, svc, "Bob", "Brown", "bob@example.com")
	createSubject(t, svc, "MATH", "Math")

	require.NoError(t, svc.Enrollments.Enroll(zed.ID, "math"))
	require.NoError(t, svc.Enrollments.Enroll(amy.ID, "MATH"))

	err := svc.Enrollments.Enroll(amy.ID, "MATH")
	assert.True(t, apperr.Is(err, apperr.DuplicateKey))
	err = svc.Enrollments.Enroll(999, "MATH")
	assert.True(t, apperr.Is(err, apperr.NotFound))
	err = svc.Enrollments.Enroll(amy.ID, "NOPE")
	assert.True(t, apperr.Is(err, apperr.NotFound))

	roster, err := svc.Enrollments.Roster("MATH")
	require.NoError(t, err)
	require.Len(t, roster.Enrolled, 2)
	assert.Equal(t, "Amy", roster.Enrolled[0].FirstName)
	assert.Equal(t, "Zed", roster.Enrolled[1].FirstName)
	require.Len(t, roster.NotEnrolled, 1)
	assert.Equal(t, bob.ID, roster.NotEnrolled[0].ID)
}

func TestUnenrollDropsGrade(t *testing.T) {
	svc, _ := setupServices(t)
	ann := createStudent(t, svc, "Ann", "Lee", "ann@example.com")
	createSubject(t, svc, "MATH", "Math")
	grade(t, svc, ann.ID, "MATH", 88)

	require.NoError(t, svc.Enrollments.Unenroll(ann.ID, "MATH"))
	enrolled, err := svc.Enrollments.IsEnrolled(ann.ID, "MATH")
	require.NoError(t, err)
	assert.False(t, enrolled)

	loaded, err := svc.Students.GetStudent(ann.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Grades)

	err = svc.Enrollments.Unenroll(ann.ID, "MATH")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
