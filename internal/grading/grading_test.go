package grading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gradebook/internal/apperr"
	"gradebook/internal/record"
)

func student(id int, grades map[string]float64) *record.Student {
	s := record.NewStudent(id, "First", "Last", "s@example.com")
	for subject, score := range grades {
		s.Grades[subject] = score
	}
	return s
}

func TestAverageAndLetterWithoutScores(t *testing.T) {
	s := student(1, nil)
	assert.Equal(t, 0.0, Average(s))
	assert.Equal(t, LetterF, Letter(s))
	assert.Equal(t, 0.0, Average(nil))
}

func TestAverage(t *testing.T) {
	s := student(1, map[string]float64{"Math": 90, "Science": 80, "Art": 70})
	assert.InDelta(t, 80.0, Average(s), 1e-9)
}

func TestLetterFor(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{100, "A"},
		{90, "A"},
		{89.99, "B"},
		{85, "B"},
		{80, "B"},
		{70, "C"},
		{60, "D"},
		{59.9, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LetterFor(tt.avg), "avg %v", tt.avg)
	}
}

func TestClassAverageAndTop(t *testing.T) {
	first := student(1, map[string]float64{"Math": 90, "Science": 80})
	second := student(2, map[string]float64{"Math": 100, "Science": 90})
	students := []*record.Student{first, second}

	assert.InDelta(t, 90.0, ClassAverage(students), 1e-9)

	top, err := TopN(students, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 2, top[0].ID)
}

func TestClassAverageSkipsUngraded(t *testing.T) {
	students := []*record.Student{
		student(1, map[string]float64{"Math": 80}),
		student(2, nil),
		student(3, map[string]float64{"Math": 0}),
	}
	assert.InDelta(t, 80.0, ClassAverage(students), 1e-9)
	assert.Equal(t, 0.0, ClassAverage([]*record.Student{student(4, nil)}))
	assert.Equal(t, 0.0, ClassAverage(nil))
}

func TestTopN(t *testing.T) {
	students := []*record.Student{
		student(1, map[string]float64{"Math": 70}),
		student(2, map[string]float64{"Math": 95}),
		student(3, map[string]float64{"Math": 70}),
		student(4, nil),
		student(5, map[string]float64{"Math": 88}),
	}

	for n := 1; n <= 7; n++ {
		top, err := TopN(students, n)
		require.NoError(t, err)
		want := n
		if want > len(students) {
			want = len(students)
		}
		require.Len(t, top, want)
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, Average(top[i-1]), Average(top[i]))
		}
	}

	top, _ := TopN(students, 5)
	assert.Equal(t, []int{2, 5, 1, 3, 4}, []int{top[0].ID, top[1].ID, top[2].ID, top[3].ID, top[4].ID})
	assert.Equal(t, 1, students[0].ID, "input order untouched")

	for _, n := range []int{0, -3} {
		_, err := TopN(students, n)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	}
}

func TestBelowThreshold(t *testing.T) {
	students := []*record.Student{
		student(1, map[string]float64{"Math": 65}),
		student(2, nil),
		student(3, map[string]float64{"Math": 70}),
		student(4, map[string]float64{"Math": 40, "Art": 50}),
	}
	below, err := BelowThreshold(students, 70)
	require.NoError(t, err)
	require.Len(t, below, 2)
	assert.Equal(t, 1, below[0].ID)
	assert.Equal(t, 4, below[1].ID)

	_, err = BelowThreshold(students, math.NaN())
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	_, err = BelowThreshold(students, math.Inf(1))
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
}

func TestParseThreshold(t *testing.T) {
	threshold, err := ParseThreshold(" 72.5 ")
	require.NoError(t, err)
	assert.Equal(t, 72.5, threshold)

	for _, raw := range []string{"", "abc", "NaN", "Inf"} {
		_, err := ParseThreshold(raw)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument), raw)
	}
}

func TestClassStatistics(t *testing.T) {
	students := []*record.Student{
		student(1, map[string]float64{"Math": 95}),
		student(2, map[string]float64{"Math": 85}),
		student(3, map[string]float64{"Math": 75}),
		student(4, map[string]float64{"Math": 65}),
		student(5, map[string]float64{"Math": 40}),
		student(6, nil),
	}
	stats := ClassStatistics(students)
	assert.Equal(t, 6, stats.Total)
	assert.InDelta(t, 72.0, stats.Average, 1e-9)
	assert.Equal(t, Distribution{A: 1, B: 1, C: 1, D: 1, F: 2}, stats.Distribution)

	for _, letter := range Letters {
		assert.Equal(t, 1+boolInt(letter == LetterF), stats.Distribution.Count(letter), letter)
	}
	assert.Equal(t, 0, stats.Distribution.Count("E"))

	empty := ClassStatistics(nil)
	assert.Equal(t, Statistics{}, empty)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, ScoreSummary{}, Summarize(nil))

	odd := Summarize([]float64{70, 90, 80})
	assert.Equal(t, ScoreSummary{Count: 3, Min: 70, Max: 90, Average: 80, Median: 80}, odd)

	even := Summarize([]float64{100, 60, 80, 70})
	assert.Equal(t, 4, even.Count)
	assert.Equal(t, 75.0, even.Median)
	assert.Equal(t, 77.5, even.Average)
}

func TestFormatGrade(t *testing.T) {
	assert.Equal(t, "85.00", FormatGrade(85))
	assert.Equal(t, "66.67", FormatGrade(200.0/3))
	assert.Equal(t, "0.00", FormatGrade(0))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
