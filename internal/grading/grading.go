// Package grading derives averages, letter grades and class statistics from
// students. Nothing here mutates its input.
package grading

import (
	"gradebook/internal/apperr"
	"gradebook/internal/record"
	"gradebook/internal/validate"
	"math"
	"sort"
	"strconv"
)

const (
	LetterA = "A"
	LetterB = "B"
	LetterC = "C"
	LetterD = "D"
	LetterF = "F"
)

// Letters lists the grade letters best first.
var Letters = []string{LetterA, LetterB, LetterC, LetterD, LetterF}

// Distribution counts students per letter grade.
type Distribution struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
	F int `json:"F"`
}

func (d *Distribution) add(letter string) {
	switch letter {
	case LetterA:
		d.A++
	case LetterB:
		d.B++
	case LetterC:
		d.C++
	case LetterD:
		d.D++
	default:
		d.F++
	}
}

// Count returns how many students got letter.
func (d Distribution) Count(letter string) int {
	switch letter {
	case LetterA:
		return d.A
	case LetterB:
		return d.B
	case LetterC:
		return d.C
	case LetterD:
		return d.D
	case LetterF:
		return d.F
	}
	return 0
}

type Statistics struct {
	Total        int          `json:"total"`
	Average      float64      `json:"average"`
	Distribution Distribution `json:"distribution"`
}

// Average is the mean of the student's scores. A student without scores
// averages 0, the same as a student whose scores are all 0.
func Average(s *record.Student) float64 {
	if s == nil || len(s.Grades) == 0 {
		return 0
	}
	var sum float64
	for _, score := range s.Grades {
		sum += score
	}
	return sum / float64(len(s.Grades))
}

// LetterFor maps an average onto A-F; each boundary belongs to the higher
// letter.
func LetterFor(avg float64) string {
	switch {
	case avg >= 90:
		return LetterA
	case avg >= 80:
		return LetterB
	case avg >= 70:
		return LetterC
	case avg >= 60:
		return LetterD
	default:
		return LetterF
	}
}

func Letter(s *record.Student) string {
	return LetterFor(Average(s))
}

// ClassAverage averages the students whose average is above zero.
func ClassAverage(students []*record.Student) float64 {
	var total float64
	var graded int
	for _, s := range students {
		if avg := Average(s); avg > 0 {
			total += avg
			graded++
		}
	}
	if graded == 0 {
		return 0
	}
	return total / float64(graded)
}

// TopN returns at most n students ordered by descending average. Students
// with equal averages keep their relative order.
func TopN(students []*record.Student, n int) ([]*record.Student, error) {
	if n <= 0 {
		return nil, apperr.Param("limit", "Limit must be a positive integer")
	}
	sorted := make([]*record.Student, len(students))
	copy(sorted, students)
	averages := make(map[*record.Student]float64, len(sorted))
	for _, s := range sorted {
		averages[s] = Average(s)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return averages[sorted[i]] > averages[sorted[j]]
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// BelowThreshold returns the students with 0 < average < threshold.
func BelowThreshold(students []*record.Student, threshold float64) ([]*record.Student, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, apperr.Param("threshold", "Threshold must be a valid number")
	}
	below := make([]*record.Student, 0)
	for _, s := range students {
		if avg := Average(s); avg > 0 && avg < threshold {
			below = append(below, s)
		}
	}
	return below, nil
}

// ParseThreshold reads a threshold typed by a user, such as a query
// parameter.
func ParseThreshold(raw string) (float64, error) {
	return validate.Number("threshold", raw)
}

func ClassStatistics(students []*record.Student) Statistics {
	stats := Statistics{
		Total:   len(students),
		Average: ClassAverage(students),
	}
	for _, s := range students {
		stats.Distribution.add(Letter(s))
	}
	return stats
}

// FormatGrade renders a grade with two decimals.
func FormatGrade(grade float64) string {
	return strconv.FormatFloat(grade, 'f', 2, 64)
}
