package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gradebook/internal/apperr"
	"gradebook/internal/model"
	"gradebook/internal/validate"
)

type SubjectService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewSubjectService(db *gorm.DB, stats *StatsService) *SubjectService {
	return &SubjectService{db: db, stats: stats}
}

// CreateSubject validates, upper-cases the id and rejects a taken id or name.
func (s *SubjectService) CreateSubject(id, name string) (*model.Subject, error) {
	id, err := validate.SubjectID(id)
	if err != nil {
		return nil, err
	}
	name, err = validate.SubjectName(name)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&model.Subject{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "checking subject id")
	}
	if count > 0 {
		return nil, apperr.Duplicate("Subject", id)
	}
	if err := s.db.Model(&model.Subject{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "checking subject name")
	}
	if count > 0 {
		return nil, apperr.Duplicate("Subject name", name)
	}

	subject := &model.Subject{ID: id, Name: name}
	if err := s.db.Create(subject).Error; err != nil {
		return nil, errors.Wrap(err, "creating subject")
	}
	return subject, nil
}

func (s *SubjectService) GetSubject(id string) (*model.Subject, error) {
	id, err := validate.SubjectID(id)
	if err != nil {
		return nil, err
	}
	var subject model.Subject
	err = s.db.First(&subject, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Missing("Subject", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading subject %s", id)
	}
	return &subject, nil
}

func (s *SubjectService) ListSubjects() ([]model.Subject, error) {
	var subjects []model.Subject
	if err := s.db.Order("id asc").Find(&subjects).Error; err != nil {
		return nil, errors.Wrap(err, "listing subjects")
	}
	return subjects, nil
}

// NameToID maps every subject name to its id.
func (s *SubjectService) NameToID() (map[string]string, error) {
	subjects, err := s.ListSubjects()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		m[subject.Name] = subject.ID
	}
	return m, nil
}

// DeleteSubject removes the subject together with its enrollments and grades.
func (s *SubjectService) DeleteSubject(id string) error {
	id, err := validate.SubjectID(id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_id = ?", id).Delete(&model.Grade{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Subject{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Missing("Subject", id)
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != "" {
			return err
		}
		return errors.Wrapf(err, "deleting subject %s", id)
	}
	s.stats.Invalidate()
	return nil
}
