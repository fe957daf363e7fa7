package grading

import "sort"

// ScoreSummary describes a list of raw scores, e.g. everyone's score in one
// subject.
type ScoreSummary struct {
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

func Summarize(scores []float64) ScoreSummary {
	if len(scores) == 0 {
		return ScoreSummary{}
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}
	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return ScoreSummary{
		Count:   n,
		Min:     sorted[0],
		Max:     sorted[n-1],
		Average: sum / float64(n),
		Median:  median,
	}
}
