// Package validate gates every externally supplied value before it reaches
// the record store or the database. The same rules are registered as
// validator tags so request bodies can be checked with struct tags.
package validate

import (
	"github.com/go-playground/validator/v10"
	"gradebook/internal/apperr"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	namePattern        = regexp.MustCompile(`^[A-Za-z\-' .]+$`)
	emailPattern       = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	subjectIDPattern   = regexp.MustCompile(`^[A-Za-z0-9]{2,10}$`)
	subjectNamePattern = regexp.MustCompile(`^[A-Za-z\-' .]{2,100}$`)
	tagPattern         = regexp.MustCompile(`<[^>]*>`)
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	register := func(tag string, re *regexp.Regexp) {
		if err := val.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	register("personname", namePattern)
	register("mail", emailPattern)
	register("subjectid", subjectIDPattern)
	if err := val.RegisterValidation("subjectname", func(fl validator.FieldLevel) bool {
		return subjectNamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		panic(err)
	}
	if err := val.RegisterValidation("score", func(fl validator.FieldLevel) bool {
		_, err := Score(fl.Field().Float())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return val
}

// Validator exposes the configured instance for struct-tag validation of
// request payloads.
func Validator() *validator.Validate { return v }

// Struct validates a tagged struct and reports the first failing field as an
// InvalidArgument error.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
		f := fields[0]
		if f.Tag() == "score" {
			return apperr.Grade(f.Value(), "")
		}
		return apperr.Param(strings.ToLower(f.Field()), "failed on '"+f.Tag()+"'")
	}
	return apperr.Param("body", err.Error())
}

// Score accepts a score in [0,100].
func Score(score float64) (float64, error) {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return 0, apperr.Grade(score, "")
	}
	return score, nil
}

// ParseScore accepts textual input such as a form field or a CSV cell.
func ParseScore(raw string) (float64, error) {
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, apperr.Grade(raw, "not a number")
	}
	return Score(score)
}

// Name checks a first or last name.
func Name(name string) (string, error) {
	if len(name) < 2 || len(name) > 100 || v.Var(name, "personname") != nil {
		return "", apperr.Param("name", "Invalid student name.")
	}
	return name, nil
}

func Email(email string) (string, error) {
	if v.Var(email, "mail") != nil {
		return "", apperr.Param("email", "Invalid email address format.")
	}
	return email, nil
}

// SubjectID returns the identifier upper-cased.
func SubjectID(id string) (string, error) {
	if v.Var(id, "subjectid") != nil {
		return "", apperr.Param("subject_id", "Invalid subject ID.")
	}
	return strings.ToUpper(id), nil
}

// SubjectName trims the name and checks the trimmed value.
func SubjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !subjectNamePattern.MatchString(name) {
		return "", apperr.Param("subject_name", "Invalid subject name.")
	}
	return name, nil
}

// ID parses a positive integer identifier.
func ID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, apperr.Param("id", "ID must be a positive integer")
	}
	return id, nil
}

// Number parses a finite float, used for thresholds.
func Number(param, raw string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, apperr.Param(param, "Value must be a valid number")
	}
	return n, nil
}

// CleanText strips markup tags and surrounding whitespace.
func CleanText(text string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(text, ""))
}
