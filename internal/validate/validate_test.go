package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gradebook/internal/apperr"
)

func TestScore(t *testing.T) {
	for _, s := range []float64{0, 55.5, 100} {
		got, err := Score(s)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	for _, s := range []float64{-1, 150, 100.01} {
		_, err := Score(s)
		assert.True(t, apperr.Is(err, apperr.InvalidGrade), "score %v", s)
	}
}

func TestParseScore(t *testing.T) {
	got, err := ParseScore(" 87.5 ")
	require.NoError(t, err)
	assert.Equal(t, 87.5, got)

	for _, raw := range []string{"abc", "150", "-1", "", "NaN"} {
		_, err := ParseScore(raw)
		assert.True(t, apperr.Is(err, apperr.InvalidGrade), "raw %q", raw)
	}
}

func TestName(t *testing.T) {
	valid := []string{"Jo", "Mary-Jane", "O'Brien", "St. John", "Anne Marie"}
	for _, n := range valid {
		_, err := Name(n)
		assert.NoError(t, err, n)
	}
	invalid := []string{"", "J", "John3", "<b>Bob</b>", strings.Repeat("a", 101)}
	for _, n := range invalid {
		_, err := Name(n)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument), "name %q", n)
	}
}

func TestEmail(t *testing.T) {
	_, err := Email("john.doe+x@school.example.org")
	assert.NoError(t, err)

	for _, e := range []string{"", "john", "john@", "john@school", "john@school.c", "a b@c.com"} {
		_, err := Email(e)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument), "email %q", e)
	}
}

func TestSubjectID(t *testing.T) {
	got, err := SubjectID("math101")
	require.NoError(t, err)
	assert.Equal(t, "MATH101", got)

	for _, id := range []string{"M", "MATH-101", "ABCDEFGHIJK", ""} {
		_, err := SubjectID(id)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument), "id %q", id)
	}
}

func TestSubjectName(t *testing.T) {
	got, err := SubjectName("Applied Math. ")
	require.NoError(t, err)
	assert.Equal(t, "Applied Math.", got)

	for _, n := range []string{"A", "   ", " A ", "", "Math 101", strings.Repeat("x", 101)} {
		_, err := SubjectName(n)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument), "name %q", n)
	}
}

func TestIDAndNumber(t *testing.T) {
	id, err := ID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, raw := range []string{"0", "-3", "x", "1.5"} {
		_, err := ID(raw)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument), "id %q", raw)
	}

	n, err := Number("threshold", "70")
	require.NoError(t, err)
	assert.Equal(t, 70.0, n)

	_, err = Number("threshold", "seventy")
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	_, err = Number("threshold", "Inf")
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Hello world", CleanText("  <p>Hello <b>world</b></p> "))
}

type gradeForm struct {
	FirstName string  `validate:"required,min=2,max=100,personname"`
	Email     string  `validate:"required,mail"`
	Score     float64 `validate:"score"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(gradeForm{FirstName: "Ann", Email: "ann@x.io", Score: 90}))

	err := Struct(gradeForm{FirstName: "Ann", Email: "nope", Score: 90})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	assert.Contains(t, err.Error(), "email")

	err = Struct(gradeForm{FirstName: "Ann", Email: "ann@x.io", Score: 101})
	assert.True(t, apperr.Is(err, apperr.InvalidGrade))
}
