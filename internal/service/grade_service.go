package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gradebook/internal/apperr"
	"gradebook/internal/grading"
	"gradebook/internal/model"
	"gradebook/internal/validate"
)

type GradeService struct {
	db          *gorm.DB
	subjects    *SubjectService
	enrollments *EnrollmentService
	stats       *StatsService
}

func NewGradeService(db *gorm.DB, subjects *SubjectService, enrollments *EnrollmentService, stats *StatsService) *GradeService {
	return &GradeService{db: db, subjects: subjects, enrollments: enrollments, stats: stats}
}

// SubjectReport summarises every score recorded in one subject.
type SubjectReport struct {
	Subject model.Subject        `json:"subject"`
	Summary grading.ScoreSummary `json:"summary"`
}

// SetGrade records a score for an enrolled student, replacing any previous
// score in that subject.
func (s *GradeService) SetGrade(studentID uint, subjectID string, score float64) (*model.Grade, error) {
	score, err := validate.Score(score)
	if err != nil {
		return nil, err
	}
	subject, err := s.subjects.GetSubject(subjectID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.enrollments.IsEnrolled(studentID, subject.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperr.Missing("Enrollment of student "+uintString(studentID)+" in", subject.ID)
	}

	grade := &model.Grade{StudentID: studentID, SubjectID: subject.ID, Score: score}
	if err := upsertGrade(s.db, grade); err != nil {
		return nil, err
	}
	s.stats.Invalidate()
	return grade, nil
}

func upsertGrade(db *gorm.DB, grade *model.Grade) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Omit("Subject").Create(grade).Error
	return errors.Wrap(err, "saving grade")
}

func (s *GradeService) DeleteGrade(studentID uint, subjectID string) error {
	id, err := validate.SubjectID(subjectID)
	if err != nil {
		return err
	}
	res := s.db.Where("student_id = ? AND subject_id = ?", studentID, id).Delete(&model.Grade{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting grade")
	}
	if res.RowsAffected == 0 {
		return apperr.Missing("Grade of student "+uintString(studentID)+" in", id)
	}
	s.stats.Invalidate()
	return nil
}

func (s *GradeService) SubjectReport(subjectID string) (*SubjectReport, error) {
	subject, err := s.subjects.GetSubject(subjectID)
	if err != nil {
		return nil, err
	}
	var scores []float64
	if err := s.db.Model(&model.Grade{}).Where("subject_id = ?", subject.ID).Pluck("score", &scores).Error; err != nil {
		return nil, errors.Wrap(err, "loading scores")
	}
	return &SubjectReport{Subject: *subject, Summary: grading.Summarize(scores)}, nil
}
