package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gradebook/internal/apperr"
	"gradebook/internal/model"
	"gradebook/internal/record"
	"gradebook/internal/validate"
	"math"
	"strings"
)

// StudentInput is the body of a create or update request.
type StudentInput struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
}

// clean strips markup and validates every field.
func (in StudentInput) clean() (StudentInput, error) {
	out := StudentInput{
		FirstName: validate.CleanText(in.FirstName),
		LastName:  validate.CleanText(in.LastName),
		Email:     validate.CleanText(in.Email),
	}
	if out.FirstName == "" || out.LastName == "" || out.Email == "" {
		return out, apperr.Param("firstname/lastname/email", "First name, last name, and email cannot be empty")
	}
	var err error
	if out.FirstName, err = validate.Name(out.FirstName); err != nil {
		return out, err
	}
	if out.LastName, err = validate.Name(out.LastName); err != nil {
		return out, err
	}
	if out.Email, err = validate.Email(out.Email); err != nil {
		return out, err
	}
	return out, nil
}

type StudentService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewStudentService(db *gorm.DB, stats *StatsService) *StudentService {
	return &StudentService{db: db, stats: stats}
}

var sortColumns = map[string]string{
	"id":         "id",
	"student_id": "id",
	"firstname":  "first_name",
	"first_name": "first_name",
	"lastname":   "last_name",
	"last_name":  "last_name",
	"email":      "email",
	"created_at": "created_at",
}

// MaxPageSize caps the limit of one student page.
const MaxPageSize = 100

// ListStudents returns one page of students together with the total match
// count and the number of pages. Unknown sort columns fall back to last name.
// The limit is clamped to [1, MaxPageSize]; a page whose offset would not fit
// in 32 bits is rejected.
func (s *StudentService) ListStudents(page, limit int, sortBy, sortOrder, name string) ([]model.Student, int64, int, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 || page-1 > math.MaxInt32/limit {
		return nil, 0, 0, apperr.Param("page", "Page is out of range")
	}
	var students []model.Student
	dbQuery := s.db.Model(&model.Student{})

	if name != "" {
		dbQuery = dbQuery.Where("LOWER(first_name || ' ' || last_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var totalCount int64
	if err := dbQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, 0, errors.Wrap(err, "counting students")
	}

	column, ok := sortColumns[strings.ToLower(sortBy)]
	if !ok {
		column = "last_name"
	}
	order := "asc"
	if strings.EqualFold(sortOrder, "desc") {
		order = "desc"
	}

	err := dbQuery.Order(column + " " + order).Order("id asc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&students).Error
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "listing students")
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))
	return students, totalCount, totalPages, nil
}

func (s *StudentService) CreateStudent(in StudentInput) (*model.Student, error) {
	in, err := in.clean()
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(in.Email, 0); err != nil {
		return nil, err
	}
	student := &model.Student{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}
	if err := s.db.Create(student).Error; err != nil {
		return nil, errors.Wrap(err, "creating student")
	}
	s.stats.Invalidate()
	return student, nil
}

// GetStudent loads a student with grades and their subjects.
func (s *StudentService) GetStudent(id uint) (*model.Student, error) {
	if id == 0 {
		return nil, apperr.StudentNotFound(0)
	}
	var student model.Student
	err := s.db.Preload("Grades.Subject").First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.StudentNotFound(int(id))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading student %d", id)
	}
	return &student, nil
}

func (s *StudentService) UpdateStudent(id uint, in StudentInput) (*model.Student, error) {
	in, err := in.clean()
	if err != nil {
		return nil, err
	}
	student, err := s.GetStudent(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(in.Email, id); err != nil {
		return nil, err
	}
	err = s.db.Model(student).Updates(map[string]interface{}{
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"email":      in.Email,
	}).Error
	if err != nil {
		return nil, errors.Wrapf(err, "updating student %d", id)
	}
	student.FirstName, student.LastName, student.Email = in.FirstName, in.LastName, in.Email
	s.stats.Invalidate()
	return student, nil
}

// DeleteStudent removes the student with its grades and enrollments.
func (s *StudentService) DeleteStudent(id uint) error {
	if id == 0 {
		return apperr.Param("id", "ID must be a positive integer")
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&model.Grade{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Student{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.StudentNotFound(int(id))
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != "" {
			return err
		}
		return errors.Wrapf(err, "deleting student %d", id)
	}
	s.stats.Invalidate()
	return nil
}

// FindByEmail returns nil without error when nobody uses email.
func (s *StudentService) FindByEmail(email string) (*model.Student, error) {
	var student model.Student
	err := s.db.Where("email = ?", email).Limit(1).Find(&student).Error
	if err != nil {
		return nil, errors.Wrap(err, "looking up email")
	}
	if student.ID == 0 {
		return nil, nil
	}
	return &student, nil
}

func (s *StudentService) ensureEmailFree(email string, owner uint) error {
	existing, err := s.FindByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != owner {
		return apperr.Duplicate("Student with email", email)
	}
	return nil
}

// LoadStore builds a record store holding every student and their grades in
// ID order.
func (s *StudentService) LoadStore() (*record.Store, error) {
	var students []model.Student
	if err := s.db.Preload("Grades.Subject").Order("id asc").Find(&students).Error; err != nil {
		return nil, errors.Wrap(err, "loading students")
	}
	store := record.NewStore()
	for _, st := range students {
		if err := store.Add(st.Record()); err != nil {
			return nil, err
		}
	}
	return store, nil
}
