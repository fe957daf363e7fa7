package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gradebook/internal/apperr"
	"gradebook/internal/model"
)

type EnrollmentService struct {
	db       *gorm.DB
	students *StudentService
	subjects *SubjectService
	stats    *StatsService
}

func NewEnrollmentService(db *gorm.DB, students *StudentService, subjects *SubjectService, stats *StatsService) *EnrollmentService {
	return &EnrollmentService{db: db, students: students, subjects: subjects, stats: stats}
}

// Roster is a subject's enrolled students and everyone who could still join.
type Roster struct {
	Subject     model.Subject   `json:"subject"`
	Enrolled    []model.Student `json:"enrolled"`
	NotEnrolled []model.Student `json:"not_enrolled"`
}

func (s *EnrollmentService) Enroll(studentID uint, subjectID string) error {
	subject, err := s.subjects.GetSubject(subjectID)
	if err != nil {
		return err
	}
	if _, err := s.students.GetStudent(studentID); err != nil {
		return err
	}
	enrolled, err := s.IsEnrolled(studentID, subject.ID)
	if err != nil {
		return err
	}
	if enrolled {
		return apperr.Duplicate("Enrollment", subject.ID)
	}
	err = s.db.Omit("Student", "Subject").Create(&model.Enrollment{StudentID: studentID, SubjectID: subject.ID}).Error
	return errors.Wrap(err, "creating enrollment")
}

func (s *EnrollmentService) IsEnrolled(studentID uint, subjectID string) (bool, error) {
	var count int64
	err := s.db.Model(&model.Enrollment{}).
		Where("student_id = ? AND subject_id = ?", studentID, subjectID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return count > 0, nil
}

// Unenroll drops the enrollment and the grade recorded under it.
func (s *EnrollmentService) Unenroll(studentID uint, subjectID string) error {
	subject, err := s.subjects.GetSubject(subjectID)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("student_id = ? AND subject_id = ?", studentID, subject.ID).Delete(&model.Enrollment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Missing("Enrollment", subject.ID)
		}
		return tx.Where("student_id = ? AND subject_id = ?", studentID, subject.ID).Delete(&model.Grade{}).Error
	})
	if err != nil {
		if apperr.KindOf(err) != "" {
			return err
		}
		return errors.Wrap(err, "removing enrollment")
	}
	s.stats.Invalidate()
	return nil
}

// Roster lists both sides ordered by last then first name.
func (s *EnrollmentService) Roster(subjectID string) (*Roster, error) {
	subject, err := s.subjects.GetSubject(subjectID)
	if err != nil {
		return nil, err
	}
	enrolledIDs := func() *gorm.DB {
		return s.db.Model(&model.Enrollment{}).Select("student_id").Where("subject_id = ?", subject.ID)
	}

	roster := &Roster{Subject: *subject, Enrolled: []model.Student{}, NotEnrolled: []model.Student{}}
	if err := s.db.Where("id IN (?)", enrolledIDs()).Order("last_name, first_name").Find(&roster.Enrolled).Error; err != nil {
		return nil, errors.Wrap(err, "listing enrolled students")
	}
	if err := s.db.Where("id NOT IN (?)", enrolledIDs()).Order("last_name, first_name").Find(&roster.NotEnrolled).Error; err != nil {
		return nil, errors.Wrap(err, "listing students not enrolled")
	}
	return roster, nil
}
