// Package csvio converts students to and from flat CSV files.
//
// Two input shapes are accepted. The simple shape has the header
// firstname,lastname,email. Anything else is read as the full export shape:
//
//	id,firstname,lastname,email,average,letter,grades
//
// where grades is a JSON object mapping subject name to score. The average
// and letter columns are derived and ignored on import.
package csvio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gradebook/internal/apperr"
	"gradebook/internal/grading"
	"gradebook/internal/record"
	"gradebook/internal/validate"
	"io"
	"strconv"
	"strings"
)

type Shape int

const (
	ShapeFull Shape = iota
	ShapeSimple
)

func (s Shape) String() string {
	if s == ShapeSimple {
		return "simple"
	}
	return "full"
}

var (
	FullHeader   = []string{"id", "firstname", "lastname", "email", "average", "letter", "grades"}
	ReportHeader = []string{"id", "fullname", "email", "average", "letter", "grades"}
)

// Result is what an import produced. Skipped rows never fail the import;
// their reasons are collected in Skipped for logging.
type Result struct {
	Shape    Shape
	Students []*record.Student
	Rows     int
	Skipped  *multierror.Error
}

func (r *Result) SkippedCount() int {
	if r.Skipped == nil {
		return 0
	}
	return len(r.Skipped.Errors)
}

// DetectShape reports ShapeSimple only for an exact three column
// firstname,lastname,email header, compared case-insensitively.
func DetectShape(header []string) Shape {
	if len(header) != 3 {
		return ShapeFull
	}
	want := []string{"firstname", "lastname", "email"}
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) != want[i] {
			return ShapeFull
		}
	}
	return ShapeSimple
}

// Import reads every row from r. Only an unreadable or empty input fails the
// whole import.
func Import(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperr.Param("file", "CSV file is empty or invalid.")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading CSV header")
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	result := &Result{Shape: DetectShape(header)}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Rows++
				result.Skipped = multierror.Append(result.Skipped, fmt.Errorf("row %d: %w", result.Rows, err))
				continue
			}
			return nil, errors.Wrap(err, "reading CSV")
		}
		result.Rows++

		student, err := parseRow(result.Shape, row)
		if err != nil {
			result.Skipped = multierror.Append(result.Skipped, fmt.Errorf("row %d: %w", result.Rows, err))
			continue
		}
		result.Students = append(result.Students, student)
	}
	return result, nil
}

func parseRow(shape Shape, row []string) (*record.Student, error) {
	var (
		id                      int
		firstName, lastName, em string
		grades                  map[string]float64
		err                     error
	)
	switch shape {
	case ShapeSimple:
		if len(row) < 3 {
			return nil, apperr.Param("row", fmt.Sprintf("expected 3 columns, got %d", len(row)))
		}
		firstName, lastName, em = row[0], row[1], row[2]
	default:
		if len(row) < 7 {
			return nil, apperr.Param("row", fmt.Sprintf("expected 7 columns, got %d", len(row)))
		}
		if strings.TrimSpace(row[0]) != "" {
			if id, err = validate.ID(row[0]); err != nil {
				return nil, err
			}
		}
		firstName, lastName, em = row[1], row[2], row[3]
		if grades, err = decodeGrades(row[6]); err != nil {
			return nil, err
		}
	}

	if firstName, err = validate.Name(firstName); err != nil {
		return nil, err
	}
	if lastName, err = validate.Name(lastName); err != nil {
		return nil, err
	}
	if em, err = validate.Email(em); err != nil {
		return nil, err
	}

	student := record.NewStudent(id, firstName, lastName, em)
	for subject, score := range grades {
		if err := student.AddGrade(subject, score); err != nil {
			return nil, err
		}
	}
	return student, nil
}

// decodeGrades treats a blank or malformed blob as no grades. Scores may be
// JSON numbers or numeric strings; anything else rejects the row.
func decodeGrades(blob string) (map[string]float64, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil, nil
	}
	grades := make(map[string]float64, len(raw))
	for subject, value := range raw {
		var (
			score float64
			err   error
		)
		switch v := value.(type) {
		case float64:
			score, err = validate.Score(v)
		case string:
			score, err = validate.ParseScore(v)
		default:
			err = apperr.Grade(value, "subject "+subject)
		}
		if err != nil {
			return nil, err
		}
		grades[subject] = score
	}
	return grades, nil
}

// EncodeGrades renders grades as a compact JSON object with sorted keys.
func EncodeGrades(grades map[string]float64) string {
	if len(grades) == 0 {
		return "{}"
	}
	blob, err := json.Marshal(grades)
	if err != nil {
		return "{}"
	}
	return string(blob)
}

// Export writes students in the full shape, header first.
func Export(w io.Writer, students []*record.Student) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(FullHeader); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, s := range students {
		if s == nil {
			continue
		}
		avg := grading.Average(s)
		row := []string{
			strconv.Itoa(s.ID),
			s.FirstName,
			s.LastName,
			s.Email,
			grading.FormatGrade(avg),
			grading.LetterFor(avg),
			EncodeGrades(s.Grades),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "writing student %d", s.ID)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flushing CSV")
}

// ExportReport writes a grade report with full names instead of separate
// name columns. Reports are not importable.
func ExportReport(w io.Writer, students []*record.Student) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ReportHeader); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, s := range students {
		if s == nil {
			continue
		}
		avg := grading.Average(s)
		row := []string{
			strconv.Itoa(s.ID),
			s.FullName(),
			s.Email,
			grading.FormatGrade(avg),
			grading.LetterFor(avg),
			EncodeGrades(s.Grades),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "writing student %d", s.ID)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flushing CSV")
}
