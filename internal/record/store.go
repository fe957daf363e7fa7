// Package record holds the in-memory student set a single request works on.
package record

import "gradebook/internal/apperr"

// Store is keyed by student ID and remembers insertion order separately so
// listing stays stable after removals. It is not safe for concurrent use; a
// store lives for one request.
type Store struct {
	byID  map[int]*Student
	order []int
}

func NewStore() *Store {
	return &Store{byID: make(map[int]*Student)}
}

// Add inserts student. The store keeps the pointer, so later AddGrade calls
// through Find are visible in List.
func (s *Store) Add(student *Student) error {
	if student == nil {
		return apperr.Param("student", "Parameter must be a student record")
	}
	if student.ID <= 0 {
		return apperr.Param("id", "ID must be a positive integer")
	}
	if _, exists := s.byID[student.ID]; exists {
		return apperr.Duplicate("Student", student.ID)
	}
	if student.Grades == nil {
		student.Grades = make(map[string]float64)
	}
	s.byID[student.ID] = student
	s.order = append(s.order, student.ID)
	return nil
}

func (s *Store) Find(id int) (*Student, error) {
	if id <= 0 {
		return nil, apperr.StudentNotFound(id)
	}
	student, ok := s.byID[id]
	if !ok {
		return nil, apperr.StudentNotFound(id)
	}
	return student, nil
}

func (s *Store) Remove(id int) error {
	if id <= 0 {
		return apperr.Param("id", "ID must be a positive integer")
	}
	if _, ok := s.byID[id]; !ok {
		return apperr.StudentNotFound(id)
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Update(id int, firstName, lastName, email string) error {
	if firstName == "" || lastName == "" || email == "" {
		return apperr.Param("firstname/lastname/email", "First name, last name, and email cannot be empty")
	}
	if id <= 0 {
		return apperr.Param("id", "ID must be a positive integer")
	}
	student, err := s.Find(id)
	if err != nil {
		return err
	}
	student.FirstName = firstName
	student.LastName = lastName
	student.Email = email
	return nil
}

// AddGrade validates score and records it on the student with the given id.
func (s *Store) AddGrade(id int, subject string, score float64) error {
	student, err := s.Find(id)
	if err != nil {
		return err
	}
	if subject == "" {
		return apperr.Param("subject", "Subject cannot be empty")
	}
	return student.AddGrade(subject, score)
}

// List returns copies of every student in insertion order.
func (s *Store) List() []*Student {
	students := make([]*Student, 0, len(s.order))
	for _, id := range s.order {
		students = append(students, s.byID[id].clone())
	}
	return students
}

func (s *Store) Len() int { return len(s.order) }
