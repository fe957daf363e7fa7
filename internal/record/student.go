package record

import (
	"fmt"
	"gradebook/internal/validate"
	"sort"
	"strings"
)

// Student is the engine's view of a student: identity plus the score
// recorded for each subject, keyed by subject name.
type Student struct {
	ID        int                `json:"id"`
	FirstName string             `json:"firstname"`
	LastName  string             `json:"lastname"`
	Email     string             `json:"email"`
	Grades    map[string]float64 `json:"grades"`
}

func NewStudent(id int, firstName, lastName, email string) *Student {
	return &Student{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Grades:    make(map[string]float64),
	}
}

// AddGrade records or replaces the score for subject.
func (s *Student) AddGrade(subject string, score float64) error {
	score, err := validate.Score(score)
	if err != nil {
		return err
	}
	if s.Grades == nil {
		s.Grades = make(map[string]float64)
	}
	s.Grades[subject] = score
	return nil
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Subjects returns the graded subject names in lexical order.
func (s *Student) Subjects() []string {
	subjects := make([]string, 0, len(s.Grades))
	for subject := range s.Grades {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}

// Info renders a plain-text summary. The average and letter are passed in so
// the record package stays free of grading rules.
func (s *Student) Info(average string, letter string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", s.ID)
	fmt.Fprintf(&b, "Name: %s\n", s.FullName())
	fmt.Fprintf(&b, "Email: %s\n", s.Email)
	fmt.Fprintf(&b, "Average Grade: %s (%s)\n", average, letter)
	b.WriteString("Grades:\n")
	for _, subject := range s.Subjects() {
		fmt.Fprintf(&b, "  %s: %g\n", subject, s.Grades[subject])
	}
	return b.String()
}

func (s *Student) clone() *Student {
	c := *s
	c.Grades = make(map[string]float64, len(s.Grades))
	for k, v := range s.Grades {
		c.Grades[k] = v
	}
	return &c
}
